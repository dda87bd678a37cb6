package generator

import (
	"strings"
	"time"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-static/internal/site"
)

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	Theming         ThemingConfig
}

// ThemingConfig selects the theme manifest applied to build runs.
type ThemingConfig struct {
	Path              string
	DefaultTheme      string
	DefaultVariant    string
	CSSVariablePrefix string
	PartialFallbacks  map[string]string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Force re-renders every page even when the manifest marks it unchanged.
	Force bool
	// DryRun renders without writing artifacts.
	DryRun bool
	// Drafts includes draft documents, used for local preview builds.
	Drafts bool
	// Paths restricts the build to documents whose source path matches one
	// of the entries, either exactly or as a directory prefix. Listing
	// pages are derived from the filtered set.
	Paths []string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID       uuid.UUID
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// TemplateContext captures the data contract passed to TemplateRenderer implementations.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageContext
	Build   BuildMetadata
	Theme   ThemeContext
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide information required by templates and feeds.
type SiteMetadata struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	Language    string
	Metadata    map[string]any
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	BuildID     uuid.UUID
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageContext contains the resolved data for a single output page. Exactly
// one of Post, Tag, or Archive is set depending on the page kind; listing
// pages additionally receive the published posts.
type PageContext struct {
	Kind     PageKind
	Route    string
	Post     *site.Post
	Posts    []*site.Post
	Tag      *site.TagGroup
	Archive  *site.Archive
	BodyHTML string
}

// PageKind discriminates the template applied to an output page.
type PageKind string

const (
	PageKindPost    PageKind = "post"
	PageKindIndex   PageKind = "index"
	PageKindTag     PageKind = "tag"
	PageKindArchive PageKind = "archive"
)

// ThemeContext surfaces go-theme selection data to templates.
type ThemeContext struct {
	Name      string
	Variant   string
	Tokens    map[string]string
	CSSVars   map[string]string
	Partials  map[string]string
	AssetURL  func(string) string
	Template  func(string, string) string
	Selection *gotheme.Selection
}

func buildThemeContext(selection *gotheme.Selection, cfg ThemingConfig) ThemeContext {
	empty := ThemeContext{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
		AssetURL: func(string) string { return "" },
		Template: func(_ string, fallback string) string { return fallback },
	}
	if selection == nil {
		return empty
	}

	return ThemeContext{
		Name:      selection.Theme,
		Variant:   selection.Variant,
		Tokens:    selection.Tokens(),
		CSSVars:   selection.CSSVariables(cfg.CSSVariablePrefix),
		Partials:  selection.Partials(cfg.PartialFallbacks),
		AssetURL:  func(key string) string { url, _ := selection.Asset(key); return url },
		Template:  selection.Template,
		Selection: selection,
	}
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured site base URL without a trailing slash.
func (h TemplateHelpers) BaseURL() string {
	return h.baseURL
}

// TagRoute returns the absolute path for a tag listing page.
func (h TemplateHelpers) TagRoute(tag string) string {
	return h.WithBaseURL(site.TagRoute(tag))
}

// WithBaseURL prefixes the provided path with the configured base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return h.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if h.baseURL == "" {
		return path
	}
	return h.baseURL + path
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	Kind         PageKind
	Route        string
	Source       string
	Output       string
	Template     string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Kind     PageKind
	Route    string
	Source   string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
