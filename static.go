// Package static turns a directory of frontmatter Markdown files into a
// publishable website: documents are loaded and validated, drafts are
// filtered, and pages, feeds, and a sitemap are rendered into an output
// directory guarded by a content-hash manifest.
package static

import (
	"context"
	"fmt"

	"github.com/goliatone/go-static/internal/commands"
	"github.com/goliatone/go-static/internal/commands/staticcmd"
	"github.com/goliatone/go-static/internal/generator"
	"github.com/goliatone/go-static/internal/logging"
	"github.com/goliatone/go-static/internal/logging/gologger"
	"github.com/goliatone/go-static/internal/markdown"
	"github.com/goliatone/go-static/internal/runtimeconfig"
	"github.com/goliatone/go-static/internal/site"
	"github.com/goliatone/go-static/pkg/interfaces"
)

// Config is the root configuration consumed by New. All knobs are explicit;
// nothing is read from ambient process state.
type Config = runtimeconfig.Config

// Document is the parsed representation of a Markdown source file.
type Document = interfaces.Document

// FrontMatter holds the metadata block parsed from a document.
type FrontMatter = interfaces.FrontMatter

// LoadReport aggregates per-file failures from a directory load.
type LoadReport = interfaces.LoadReport

// BuildOptions narrows the scope of a build run.
type BuildOptions = generator.BuildOptions

// BuildResult reports what a build run produced.
type BuildResult = generator.BuildResult

// DefaultConfig returns the baseline configuration used when no file or
// overrides are supplied.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file layered over the defaults. A
// missing file returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}

// Option customises Site construction.
type Option func(*Site)

// WithLoggerProvider wires a logger provider; defaults to a go-logger backed
// provider configured from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(s *Site) {
		s.provider = provider
	}
}

// WithRenderer overrides the template renderer used for page generation.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(s *Site) {
		s.renderer = renderer
	}
}

// WithMarkdownParser overrides the Markdown parser used for document bodies.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(s *Site) {
		s.parser = parser
	}
}

// WithArtifactWriter overrides where generated artifacts are written.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(s *Site) {
		s.writer = writer
	}
}

// Site is the assembled pipeline: markdown loading, publish filtering, page
// rendering, and artifact generation behind one facade.
type Site struct {
	cfg      Config
	provider interfaces.LoggerProvider
	parser   interfaces.MarkdownParser
	renderer interfaces.TemplateRenderer
	writer   generator.ArtifactWriter

	markdown  *markdown.Service
	generator generator.Service
}

// New validates the configuration and wires every component of the pipeline.
func New(cfg Config, opts ...Option) (*Site, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Site{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("static: configure logging: %w", err)
		}
		s.provider = provider
	}

	markdownSvc, err := markdown.NewService(markdown.Config{
		BasePath:  cfg.Content.Dir,
		Pattern:   cfg.Content.Pattern,
		Recursive: cfg.Content.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Content.Parser.Extensions,
			Sanitize:   cfg.Content.Parser.Sanitize,
			HardWraps:  cfg.Content.Parser.HardWraps,
			SafeMode:   cfg.Content.Parser.SafeMode,
		},
		Logger: logging.MarkdownLogger(s.provider),
	}, s.parser)
	if err != nil {
		return nil, fmt.Errorf("static: configure markdown: %w", err)
	}
	s.markdown = markdownSvc

	if s.renderer == nil {
		renderer, err := generator.NewHTMLRenderer(cfg.Theme.Path)
		if err != nil {
			return nil, fmt.Errorf("static: configure templates: %w", err)
		}
		s.renderer = renderer
	}

	s.generator = generator.NewService(
		generator.Config{
			OutputDir:       cfg.Generator.OutputDir,
			BaseURL:         cfg.Site.BaseURL,
			CleanBuild:      cfg.Generator.CleanBuild,
			Incremental:     cfg.Generator.Incremental,
			CopyAssets:      cfg.Generator.CopyAssets,
			GenerateSitemap: cfg.Generator.GenerateSitemap,
			GenerateRobots:  cfg.Generator.GenerateRobots,
			GenerateFeeds:   cfg.Generator.GenerateFeeds,
			FeedLimit:       cfg.Generator.FeedLimit,
			Theming: generator.ThemingConfig{
				Path:           cfg.Theme.Path,
				DefaultTheme:   cfg.Theme.Name,
				DefaultVariant: cfg.Theme.Variant,
			},
		},
		generator.SiteMetadata{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			Author:      cfg.Site.Author,
			BaseURL:     cfg.Site.BaseURL,
			Language:    cfg.Site.Language,
		},
		generator.Dependencies{
			Markdown: markdownSvc,
			Renderer: s.renderer,
			Writer:   s.writer,
			Logger:   logging.GeneratorLogger(s.provider),
		},
	)

	return s, nil
}

// Markdown exposes the document loading service.
func (s *Site) Markdown() interfaces.MarkdownService {
	return s.markdown
}

// Generator exposes the build service.
func (s *Site) Generator() generator.Service {
	return s.generator
}

// Publish filters drafts and orders documents newest first, ties broken by path.
func (s *Site) Publish(docs []*Document, includeDrafts bool) []*site.Post {
	return site.Publish(docs, site.PublishOptions{IncludeDrafts: includeDrafts})
}

// Build runs a full generation pass.
func (s *Site) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	handler := staticcmd.NewBuildSiteHandler(
		s.generator,
		commands.CommandLogger(s.provider, "site"),
		FeatureGatesEnabled(),
	)
	var result *BuildResult
	err := handler.Execute(ctx, staticcmd.BuildSiteCommand{
		Force:  opts.Force,
		DryRun: opts.DryRun,
		Drafts: opts.Drafts,
		Paths:  opts.Paths,
		ResultCallback: func(envelope staticcmd.ResultEnvelope) {
			result = envelope.Result
		},
	})
	return result, err
}

// Clean removes every artifact recorded in the build manifest.
func (s *Site) Clean(ctx context.Context) error {
	handler := staticcmd.NewCleanSiteHandler(
		s.generator,
		commands.CommandLogger(s.provider, "site"),
		FeatureGatesEnabled(),
	)
	return handler.Execute(ctx, staticcmd.CleanSiteCommand{})
}

// Preview loads and renders a single document without writing artifacts. The
// returned document carries both the parsed frontmatter and the body HTML.
func (s *Site) Preview(ctx context.Context, path string) (*Document, error) {
	handler := staticcmd.NewPreviewFileHandler(
		s.markdown,
		commands.CommandLogger(s.provider, "markdown"),
	)
	var doc *Document
	err := handler.Execute(ctx, staticcmd.PreviewFileCommand{
		Path: path,
		Output: func(loaded *Document) {
			doc = loaded
		},
	})
	return doc, err
}

// FeatureGatesEnabled returns gates with the generator switched on.
func FeatureGatesEnabled() staticcmd.FeatureGates {
	return staticcmd.FeatureGates{
		GeneratorEnabled: func() bool { return true },
	}
}
