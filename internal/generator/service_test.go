package generator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-static/internal/markdown"
	"github.com/goliatone/go-static/pkg/interfaces"
)

func TestBuild_WritesPagesAndListings(t *testing.T) {
	svc, writer := newTestGenerator(t, testDocuments(), nil, Config{
		OutputDir:       "public",
		GenerateFeeds:   true,
		GenerateSitemap: true,
		GenerateRobots:  true,
		FeedLimit:       10,
	})

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Two posts, the index, one tag page, one archive page.
	if result.PagesBuilt != 5 {
		t.Fatalf("expected 5 pages built, got %d", result.PagesBuilt)
	}

	for _, path := range []string{
		"index.html",
		"2024/05/hello-world/index.html",
		"2024/01/older-entry/index.html",
		"tags/go/index.html",
		"2024/index.html",
		"feed.xml",
		"feed.atom.xml",
		"sitemap.xml",
		"robots.txt",
		".static-manifest.json",
	} {
		if _, ok := writer.files[path]; !ok {
			t.Fatalf("expected %s to be written, have %v", path, writer.paths())
		}
	}

	index := string(writer.files["index.html"])
	if !strings.Contains(index, "Hello World") || !strings.Contains(index, "Older Entry") {
		t.Fatalf("index should list both posts: %q", index)
	}
	postPage := string(writer.files["2024/05/hello-world/index.html"])
	if !strings.Contains(postPage, "<strong>bold</strong>") {
		t.Fatalf("post page should carry rendered markdown: %q", postPage)
	}
}

func TestBuild_ExcludesDraftsByDefault(t *testing.T) {
	docs := testDocuments()
	docs = append(docs, testDocument("drafts/wip.md", "Work In Progress", "2024-06-01", true, nil))

	svc, writer := newTestGenerator(t, docs, nil, Config{OutputDir: "public"})

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for path := range writer.files {
		if strings.Contains(path, "work-in-progress") {
			t.Fatalf("draft page was written: %s", path)
		}
	}

	writer.reset()
	if _, err := svc.Build(context.Background(), BuildOptions{Drafts: true}); err != nil {
		t.Fatalf("Build with drafts: %v", err)
	}
	if _, ok := writer.files["2024/06/work-in-progress/index.html"]; !ok {
		t.Fatalf("expected draft page in preview build, have %v", writer.paths())
	}
}

func TestBuild_IncrementalSkipsUnchangedPages(t *testing.T) {
	svc, writer := newTestGenerator(t, testDocuments(), nil, Config{
		OutputDir:   "public",
		Incremental: true,
	})

	first, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if first.PagesSkipped != 0 {
		t.Fatalf("first build should render everything, skipped %d", first.PagesSkipped)
	}

	second, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if second.PagesBuilt != 0 {
		t.Fatalf("second build should skip all pages, built %d", second.PagesBuilt)
	}
	if second.PagesSkipped != first.PagesBuilt {
		t.Fatalf("expected %d skipped, got %d", first.PagesBuilt, second.PagesSkipped)
	}

	forced, err := svc.Build(context.Background(), BuildOptions{Force: true})
	if err != nil {
		t.Fatalf("forced Build: %v", err)
	}
	if forced.PagesBuilt != first.PagesBuilt {
		t.Fatalf("force should rebuild everything, built %d", forced.PagesBuilt)
	}
	_ = writer
}

func TestBuild_PathFilterLimitsScope(t *testing.T) {
	svc, writer := newTestGenerator(t, testDocuments(), nil, Config{OutputDir: "public"})

	result, err := svc.Build(context.Background(), BuildOptions{Paths: []string{"posts/hello.md"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// One post plus the listings derived from it: index, tag, archive.
	if result.PagesBuilt != 4 {
		t.Fatalf("expected 4 pages built, got %d", result.PagesBuilt)
	}
	if _, ok := writer.files["2024/05/hello-world/index.html"]; !ok {
		t.Fatalf("expected matching post to be written, have %v", writer.paths())
	}
	if _, ok := writer.files["2024/01/older-entry/index.html"]; ok {
		t.Fatalf("filtered-out post must not be written")
	}
	index := string(writer.files["index.html"])
	if strings.Contains(index, "Older Entry") {
		t.Fatalf("index must only list filtered posts: %q", index)
	}
}

func TestFilterDocuments(t *testing.T) {
	docs := testDocuments()

	if got := filterDocuments(docs, nil); len(got) != len(docs) {
		t.Fatalf("empty filter must keep everything, got %d", len(got))
	}
	if got := filterDocuments(docs, []string{"posts"}); len(got) != 2 {
		t.Fatalf("directory prefix should match both posts, got %d", len(got))
	}
	if got := filterDocuments(docs, []string{"posts/older.md"}); len(got) != 1 || got[0].Path != "posts/older.md" {
		t.Fatalf("exact match failed, got %v", got)
	}
	if got := filterDocuments(docs, []string{"missing"}); len(got) != 0 {
		t.Fatalf("non-matching filter should drop everything, got %d", len(got))
	}
}

func TestBuild_DryRunWritesNothing(t *testing.T) {
	svc, writer := newTestGenerator(t, testDocuments(), nil, Config{OutputDir: "public"})

	result, err := svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt == 0 {
		t.Fatalf("dry run should still render pages")
	}
	if len(writer.files) != 0 {
		t.Fatalf("dry run must not write artifacts, wrote %v", writer.paths())
	}
}

func TestBuild_CollectsLoadReportErrors(t *testing.T) {
	report := &interfaces.LoadReport{}
	report.Add(&markdown.ParseError{Path: "bad.md", Field: "title", Err: markdown.ErrFieldMissing})

	svc, writer := newTestGenerator(t, testDocuments(), report, Config{OutputDir: "public"})

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err == nil {
		t.Fatalf("expected aggregate error from load report")
	}
	if result == nil || result.PagesBuilt == 0 {
		t.Fatalf("healthy documents must still be built")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 collected error, got %d", len(result.Errors))
	}
	var parseErr *markdown.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError in aggregate: %v", err)
	}
	if _, ok := writer.files["index.html"]; !ok {
		t.Fatalf("index should be written despite load failures")
	}
}

func TestClean_RemovesManifestArtifacts(t *testing.T) {
	svc, writer := newTestGenerator(t, testDocuments(), nil, Config{OutputDir: "public"})

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(writer.files) == 0 {
		t.Fatalf("expected artifacts before clean")
	}

	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(writer.files) != 0 {
		t.Fatalf("expected artifacts removed, left %v", writer.paths())
	}
}

func TestBuild_RequiresDependencies(t *testing.T) {
	svc := NewService(Config{}, SiteMetadata{}, Dependencies{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrMarkdownRequired) {
		t.Fatalf("expected ErrMarkdownRequired, got %v", err)
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if err := svc.Clean(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func newTestGenerator(tb testing.TB, docs []*interfaces.Document, report *interfaces.LoadReport, cfg Config) (Service, *memoryWriter) {
	tb.Helper()

	renderer, err := NewHTMLRenderer("")
	if err != nil {
		tb.Fatalf("NewHTMLRenderer: %v", err)
	}

	writer := newMemoryWriter()
	svc := NewService(cfg, SiteMetadata{
		Title:   "Test Site",
		BaseURL: "https://example.com",
	}, Dependencies{
		Markdown: &fakeMarkdownService{docs: docs, report: report},
		Renderer: renderer,
		Writer:   writer,
	})
	return svc, writer
}

func testDocuments() []*interfaces.Document {
	return []*interfaces.Document{
		testDocument("posts/hello.md", "Hello World", "2024-05-01", false, []string{"go"}),
		testDocument("posts/older.md", "Older Entry", "2024-01-10", false, []string{"go"}),
	}
}

func testDocument(path, title, date string, draft bool, tags []string) *interfaces.Document {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &interfaces.Document{
		Path: path,
		FrontMatter: interfaces.FrontMatter{
			Title: title,
			Date:  parsed,
			Draft: draft,
			Tags:  tags,
		},
		Body:         []byte("Body with **bold** text."),
		BodyHTML:     []byte("<p>Body with <strong>bold</strong> text.</p>"),
		LastModified: parsed,
		Checksum:     []byte(path + date),
	}
}

type fakeMarkdownService struct {
	docs   []*interfaces.Document
	report *interfaces.LoadReport
}

func (f *fakeMarkdownService) Load(_ context.Context, path string, _ interfaces.LoadOptions) (*interfaces.Document, error) {
	for _, doc := range f.docs {
		if doc.Path == path {
			return doc, nil
		}
	}
	return nil, &markdown.IOError{Path: path, Err: errors.New("not found")}
}

func (f *fakeMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, *interfaces.LoadReport, error) {
	report := f.report
	if report == nil {
		report = &interfaces.LoadReport{}
	}
	return f.docs, report, nil
}

func (f *fakeMarkdownService) Render(_ context.Context, markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return markdown, nil
}

func (f *fakeMarkdownService) RenderDocument(_ context.Context, doc *interfaces.Document, _ interfaces.ParseOptions) ([]byte, error) {
	return doc.BodyHTML, nil
}

type memoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string][]byte{}}
}

func (w *memoryWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[req.Path] = data
	return nil
}

func (w *memoryWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path], nil
}

func (w *memoryWriter) RemoveAll(_ context.Context, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
	return nil
}

func (w *memoryWriter) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = map[string][]byte{}
}

func (w *memoryWriter) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for path := range w.files {
		out = append(out, path)
	}
	return out
}
