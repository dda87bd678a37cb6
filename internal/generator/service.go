package generator

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-static/internal/logging"
	"github.com/goliatone/go-static/internal/site"
	"github.com/goliatone/go-static/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrMarkdownRequired indicates the generator was wired without a markdown service.
	ErrMarkdownRequired = errors.New("generator: markdown service is required")
	// ErrRendererRequired indicates the generator was wired without a template renderer.
	ErrRendererRequired = errors.New("generator: template renderer is required")
	// ErrWriterRequired indicates the generator was wired without an artifact writer.
	ErrWriterRequired = errors.New("generator: artifact writer is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Markdown interfaces.MarkdownService
	Renderer interfaces.TemplateRenderer
	Writer   ArtifactWriter
	Assets   AssetResolver
	Logger   interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration
// and dependencies. Missing optional collaborators get filesystem defaults.
func NewService(cfg Config, siteMeta SiteMetadata, deps Dependencies) Service {
	if deps.Writer == nil && strings.TrimSpace(cfg.OutputDir) != "" {
		deps.Writer = NewFilesystemWriter(cfg.OutputDir)
	}
	if deps.Assets == nil {
		deps.Assets = FilesystemAssetResolver{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	siteMeta.BaseURL = strings.TrimRight(strings.TrimSpace(siteMeta.BaseURL), "/")
	if siteMeta.Metadata == nil {
		siteMeta.Metadata = map[string]any{}
	}
	return &service{
		cfg:    cfg,
		site:   siteMeta,
		deps:   deps,
		themes: newThemeSelector(cfg.Theming, nil),
		now:    time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	site   SiteMetadata
	deps   Dependencies
	themes *themeSelector
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

// Build runs a full generation pass: load documents, publish, render every
// page, copy theme assets, and emit feeds, sitemap, robots, and the build
// manifest. Per-document failures are collected rather than aborting the run;
// the returned error joins everything that went wrong while BuildResult still
// reports what was produced.
func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Markdown == nil {
		return nil, ErrMarkdownRequired
	}
	if s.deps.Renderer == nil {
		return nil, ErrRendererRequired
	}
	if s.deps.Writer == nil {
		return nil, ErrWriterRequired
	}

	start := time.Now()
	generatedAt := s.now().UTC()
	buildID := uuid.New()

	result := &BuildResult{
		BuildID: buildID,
		DryRun:  opts.DryRun,
	}

	logger := logging.WithFields(s.deps.Logger, map[string]any{"build_id": buildID.String()})
	logger.Info("generator.build.start",
		"force", opts.Force,
		"dry_run", opts.DryRun,
		"drafts", opts.Drafts,
	)

	var buildErrors []error

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			buildErrors = append(buildErrors, fmt.Errorf("generator: clean before build: %w", err))
		}
	}

	docs, report, err := s.deps.Markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("generator: load content: %w", err)
	}
	if report.Failed() {
		buildErrors = append(buildErrors, report.Errors...)
	}

	docs = filterDocuments(docs, opts.Paths)

	collection := site.Collect(docs, site.PublishOptions{IncludeDrafts: opts.Drafts})

	selection, err := s.themes.Selection(s.cfg.Theming)
	if err != nil {
		buildErrors = append(buildErrors, err)
	}
	themeCtx := buildThemeContext(selection, s.cfg.Theming)

	writer := s.deps.Writer
	if opts.DryRun {
		writer = noopWriter{}
	}

	previous := newManifest(uuid.Nil)
	if s.cfg.Incremental && !opts.Force {
		previous = loadManifest(ctx, s.deps.Writer)
	}
	manifest := newManifest(buildID)
	manifest.GeneratedAt = generatedAt

	baseCtx := TemplateContext{
		Site:  s.site,
		Theme: themeCtx,
		Build: BuildMetadata{
			BuildID:     buildID,
			GeneratedAt: generatedAt,
			Options:     opts,
		},
		Helpers: newTemplateHelpers(s.site.BaseURL),
	}

	pages := s.pageContexts(collection)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			buildErrors = append(buildErrors, err)
			break
		}
		outcome := s.renderPage(ctx, writer, baseCtx, page, previous, manifest, opts)
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			buildErrors = append(buildErrors, outcome.err)
			continue
		}
		if outcome.skipped {
			result.PagesSkipped++
			continue
		}
		result.PagesBuilt++
		result.Rendered = append(result.Rendered, outcome.page)
	}

	if s.cfg.CopyAssets {
		built, skipped, err := s.copyAssets(ctx, writer, selection, previous, manifest)
		if err != nil {
			buildErrors = append(buildErrors, err)
		}
		result.AssetsBuilt = built
		result.AssetsSkipped = skipped
	}

	if s.cfg.GenerateFeeds && len(collection.Posts) > 0 {
		if err := s.writeFeeds(ctx, writer, collection.Posts, generatedAt, manifest); err != nil {
			buildErrors = append(buildErrors, err)
		}
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, result, previous, manifest, generatedAt); err != nil {
			buildErrors = append(buildErrors, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, manifest); err != nil {
			buildErrors = append(buildErrors, err)
		}
	}

	if !opts.DryRun {
		if err := persistManifest(ctx, s.deps.Writer, manifest); err != nil {
			buildErrors = append(buildErrors, fmt.Errorf("generator: persist manifest: %w", err))
		}
	}

	result.Duration = time.Since(start)
	logger.Info("generator.build.done",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"errors", len(buildErrors),
		"duration", result.Duration.String(),
	)

	if len(buildErrors) > 0 {
		result.Errors = append(result.Errors, buildErrors...)
		return result, errors.Join(buildErrors...)
	}
	return result, nil
}

// filterDocuments narrows docs to those matching one of the requested source
// paths, exactly or by directory prefix. An empty filter keeps everything.
func filterDocuments(docs []*interfaces.Document, paths []string) []*interfaces.Document {
	if len(paths) == 0 {
		return docs
	}

	normalized := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	if len(normalized) == 0 {
		return docs
	}

	var filtered []*interfaces.Document
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, p := range normalized {
			if doc.Path == p || strings.HasPrefix(doc.Path, p+"/") {
				filtered = append(filtered, doc)
				break
			}
		}
	}
	return filtered
}

// pageContexts expands the published collection into the concrete set of
// output pages: one per post, the index listing, one per tag, one per year.
func (s *service) pageContexts(collection *site.Collection) []PageContext {
	pages := make([]PageContext, 0, len(collection.Posts)+len(collection.Tags)+len(collection.Archives)+1)

	for _, post := range collection.Posts {
		pages = append(pages, PageContext{
			Kind:     PageKindPost,
			Route:    post.Route,
			Post:     post,
			BodyHTML: string(post.Document.BodyHTML),
		})
	}

	pages = append(pages, PageContext{
		Kind:  PageKindIndex,
		Route: "/",
		Posts: collection.Posts,
	})

	for i := range collection.Tags {
		tag := &collection.Tags[i]
		pages = append(pages, PageContext{
			Kind:  PageKindTag,
			Route: tag.Route,
			Tag:   tag,
		})
	}

	for i := range collection.Archives {
		archive := &collection.Archives[i]
		pages = append(pages, PageContext{
			Kind:    PageKindArchive,
			Route:   fmt.Sprintf("/%04d/", archive.Year),
			Archive: archive,
		})
	}

	return pages
}

func (s *service) renderPage(
	ctx context.Context,
	writer ArtifactWriter,
	baseCtx TemplateContext,
	page PageContext,
	previous *Manifest,
	manifest *Manifest,
	opts BuildOptions,
) renderOutcome {
	started := time.Now()
	templateName := string(page.Kind)
	diagnostic := RenderDiagnostic{
		Kind:     page.Kind,
		Route:    page.Route,
		Template: templateName,
	}
	if page.Post != nil {
		diagnostic.Source = page.Post.Document.Path
	}

	checksum := s.pageChecksum(page)
	if !opts.Force && s.cfg.Incremental && previous.unchanged(page.Route, checksum) {
		manifest.carryOver(page.Route, previous)
		diagnostic.Skipped = true
		diagnostic.Duration = time.Since(started)
		return renderOutcome{diagnostic: diagnostic, skipped: true}
	}

	templateCtx := baseCtx
	templateCtx.Page = page
	if override := baseCtx.Theme.Template(templateName, templateName); override != "" {
		templateName = override
		diagnostic.Template = override
	}

	markup, err := s.deps.Renderer.RenderTemplate(templateName, templateCtx)
	if err != nil {
		diagnostic.Err = err
		diagnostic.Duration = time.Since(started)
		return renderOutcome{
			diagnostic: diagnostic,
			err:        fmt.Errorf("generator: render %s: %w", page.Route, err),
		}
	}

	output := routeToOutputPath(page.Route)
	lastModified := time.Time{}
	source := ""
	if page.Post != nil {
		lastModified = page.Post.Document.LastModified
		source = page.Post.Document.Path
	}

	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        output,
		Content:     strings.NewReader(markup),
		Size:        int64(len(markup)),
		Category:    pageCategory(page.Kind),
		ContentType: "text/html; charset=utf-8",
		Checksum:    checksum,
	}); err != nil {
		diagnostic.Err = err
		diagnostic.Duration = time.Since(started)
		return renderOutcome{
			diagnostic: diagnostic,
			err:        fmt.Errorf("generator: write %s: %w", output, err),
		}
	}

	manifest.record(page.Route, ManifestEntry{
		Source:     source,
		Output:     output,
		Checksum:   checksum,
		Category:   string(pageCategory(page.Kind)),
		RenderedAt: manifest.GeneratedAt,
	})

	diagnostic.Duration = time.Since(started)
	return renderOutcome{
		diagnostic: diagnostic,
		page: RenderedPage{
			Kind:         page.Kind,
			Route:        page.Route,
			Source:       source,
			Output:       output,
			Template:     diagnostic.Template,
			HTML:         markup,
			Checksum:     checksum,
			LastModified: lastModified,
			Duration:     diagnostic.Duration,
		},
	}
}

// pageChecksum derives the incremental-build key for a page. Post pages hash
// to their source document checksum; listing pages hash to the checksums of
// every document they aggregate so a change in any member re-renders them.
func (s *service) pageChecksum(page PageContext) string {
	switch page.Kind {
	case PageKindPost:
		if page.Post != nil {
			return hex.EncodeToString(page.Post.Document.Checksum)
		}
	case PageKindIndex:
		return postsChecksum(page.Posts)
	case PageKindTag:
		if page.Tag != nil {
			return postsChecksum(page.Tag.Posts)
		}
	case PageKindArchive:
		if page.Archive != nil {
			return postsChecksum(page.Archive.Posts)
		}
	}
	return ""
}

func postsChecksum(posts []*site.Post) string {
	var combined []byte
	for _, post := range posts {
		combined = append(combined, post.Document.Checksum...)
		combined = append(combined, []byte(post.Route)...)
	}
	return checksumBytes(combined)
}

func pageCategory(kind PageKind) writeCategory {
	if kind == PageKindPost {
		return categoryPage
	}
	return categoryListing
}

func (s *service) copyAssets(
	ctx context.Context,
	writer ArtifactWriter,
	selection *gotheme.Selection,
	previous *Manifest,
	manifest *Manifest,
) (built int, skipped int, err error) {
	assets := collectThemeAssets(selection)
	if len(assets) == 0 {
		return 0, 0, nil
	}

	var copyErrors []error
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			copyErrors = append(copyErrors, err)
			break
		}
		target := path.Join("assets", asset)
		data, err := s.readAsset(ctx, asset)
		if err != nil {
			copyErrors = append(copyErrors, err)
			continue
		}
		checksum := checksumBytes(data)
		route := "/" + target
		if previous.unchanged(route, checksum) {
			manifest.carryOver(route, previous)
			skipped++
			continue
		}
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:        target,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(asset),
			Checksum:    checksum,
		}); err != nil {
			copyErrors = append(copyErrors, fmt.Errorf("generator: copy asset %s: %w", asset, err))
			continue
		}
		manifest.record(route, ManifestEntry{
			Output:     target,
			Checksum:   checksum,
			Category:   string(categoryAsset),
			RenderedAt: manifest.GeneratedAt,
		})
		built++
	}
	return built, skipped, errors.Join(copyErrors...)
}

func (s *service) readAsset(ctx context.Context, asset string) ([]byte, error) {
	reader, err := s.deps.Assets.Open(ctx, s.cfg.Theming.Path, asset)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *service) writeFeeds(
	ctx context.Context,
	writer ArtifactWriter,
	posts []*site.Post,
	generatedAt time.Time,
	manifest *Manifest,
) error {
	items := buildFeedItems(s.site, posts, s.cfg.FeedLimit)
	if len(items) == 0 {
		return nil
	}

	feeds := []struct {
		path        string
		content     string
		contentType string
	}{
		{"feed.xml", buildRSSFeed(s.site, items, generatedAt), "application/rss+xml"},
		{"feed.atom.xml", buildAtomFeed(s.site, items, generatedAt), "application/atom+xml"},
	}

	for _, feed := range feeds {
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:        feed.path,
			Content:     strings.NewReader(feed.content),
			Size:        int64(len(feed.content)),
			Category:    categoryFeed,
			ContentType: feed.contentType,
			Checksum:    checksumBytes([]byte(feed.content)),
		}); err != nil {
			return fmt.Errorf("generator: write feed %s: %w", feed.path, err)
		}
		manifest.record("/"+feed.path, ManifestEntry{
			Output:     feed.path,
			Checksum:   checksumBytes([]byte(feed.content)),
			Category:   string(categoryFeed),
			RenderedAt: manifest.GeneratedAt,
		})
	}
	return nil
}

// writeSitemap covers every page in the run, including pages skipped by the
// incremental check, by merging the previous manifest entries back in.
func (s *service) writeSitemap(
	ctx context.Context,
	writer ArtifactWriter,
	result *BuildResult,
	previous *Manifest,
	manifest *Manifest,
	generatedAt time.Time,
) error {
	pages := append([]RenderedPage(nil), result.Rendered...)
	seen := map[string]struct{}{}
	for _, page := range pages {
		seen[page.Route] = struct{}{}
	}
	for _, diagnostic := range result.Diagnostics {
		if !diagnostic.Skipped {
			continue
		}
		if _, ok := seen[diagnostic.Route]; ok {
			continue
		}
		entry, ok := previous.Entries[diagnostic.Route]
		if !ok {
			continue
		}
		pages = append(pages, RenderedPage{
			Kind:         diagnostic.Kind,
			Route:        diagnostic.Route,
			Output:       entry.Output,
			LastModified: entry.RenderedAt,
		})
	}

	content := buildSitemap(s.site.BaseURL, pages, generatedAt)
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    checksumBytes([]byte(content)),
	}); err != nil {
		return fmt.Errorf("generator: write sitemap: %w", err)
	}
	manifest.record("/sitemap.xml", ManifestEntry{
		Output:     "sitemap.xml",
		Checksum:   checksumBytes([]byte(content)),
		Category:   string(categorySitemap),
		RenderedAt: manifest.GeneratedAt,
	})
	return nil
}

func (s *service) writeRobots(ctx context.Context, writer ArtifactWriter, manifest *Manifest) error {
	content := buildRobots(s.site.BaseURL, s.cfg.GenerateSitemap)
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain",
		Checksum:    checksumBytes([]byte(content)),
	}); err != nil {
		return fmt.Errorf("generator: write robots: %w", err)
	}
	manifest.record("/robots.txt", ManifestEntry{
		Output:     "robots.txt",
		Checksum:   checksumBytes([]byte(content)),
		Category:   string(categoryRobots),
		RenderedAt: manifest.GeneratedAt,
	})
	return nil
}

// Clean removes every artifact recorded in the manifest plus the manifest
// itself. Files the generator never wrote are left alone.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Writer == nil {
		return ErrWriterRequired
	}

	manifest := loadManifest(ctx, s.deps.Writer)
	var cleanErrors []error
	for _, route := range manifest.routes() {
		entry := manifest.Entries[route]
		if strings.TrimSpace(entry.Output) == "" {
			continue
		}
		if err := s.deps.Writer.RemoveAll(ctx, entry.Output); err != nil {
			cleanErrors = append(cleanErrors, err)
		}
	}
	if err := s.deps.Writer.RemoveAll(ctx, manifestFilename); err != nil {
		cleanErrors = append(cleanErrors, err)
	}
	return errors.Join(cleanErrors...)
}
