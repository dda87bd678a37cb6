package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-static/internal/generator"
	"github.com/goliatone/go-static/pkg/interfaces"
)

const (
	buildSiteMessageType   = "static.site.build"
	diffSiteMessageType    = "static.site.diff"
	cleanSiteMessageType   = "static.site.clean"
	previewFileMessageType = "static.site.preview"
)

// ResultCallback receives build results produced by generator operations. The
// callback is optional and is invoked synchronously from the handler when a
// BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that
// generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build. Paths optionally restricts
// the run to documents under the listed source paths.
type BuildSiteCommand struct {
	Paths          []string       `json:"paths,omitempty"`
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Drafts         bool           `json:"drafts,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (BuildSiteCommand) Validate() error { return nil }

// DiffSiteCommand performs a dry-run build to surface differences without
// writing artifacts.
type DiffSiteCommand struct {
	Force          bool           `json:"force,omitempty"`
	Drafts         bool           `json:"drafts,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (DiffSiteCommand) Validate() error { return nil }

// CleanSiteCommand clears generator artifacts from the output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// PreviewFileCommand renders a single Markdown document to HTML without
// touching the output directory. Output receives the loaded document with
// BodyHTML populated.
type PreviewFileCommand struct {
	Path   string `json:"path"`
	Output func(doc *interfaces.Document)
}

// Type implements command.Message.
func (PreviewFileCommand) Type() string { return previewFileMessageType }

// Validate ensures a source path was supplied.
func (m PreviewFileCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Path) == "" {
		errs["path"] = validation.NewError("static.site.preview.path_required", "path must not be empty")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}
