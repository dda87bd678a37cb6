package markdown

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Sample Document" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "sample-document" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "static" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Author != "Jordan Blake" {
		t.Fatalf("FrontMatter Author mismatch, got %q", fm.Author)
	}
	if fm.Custom["custom_flag"] != true {
		t.Fatalf("FrontMatter Custom flag missing: %#v", fm.Custom)
	}
	if fm.Raw["summary"] != "Sample summary goes here" {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if fm.Draft {
		t.Fatalf("expected draft to default to false")
	}
	if len(body) == 0 || !strings.Contains(string(body), "# Sample Document") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatter_Missing(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("# No metadata\n\nJust body.\n"))
	if !errors.Is(err, ErrFrontMatterMissing) {
		t.Fatalf("expected ErrFrontMatterMissing, got %v", err)
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("testdata/basic.md", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.Path != "testdata/basic.md" {
		t.Fatalf("expected Path to be set, got %q", doc.Path)
	}
	if !doc.LastModified.Equal(modified) {
		t.Fatalf("LastModified mismatch: %v vs %v", doc.LastModified, modified)
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if !doc.FrontMatter.Date.Equal(want) {
		t.Fatalf("Date mismatch: got %v want %v", doc.FrontMatter.Date, want)
	}
}

func TestBuildDocument_TitleRequired(t *testing.T) {
	source := []byte("---\ndate: 2024-01-01\n---\n\nBody.\n")

	_, err := BuildDocument("broken.md", source, time.Now())
	if err == nil {
		t.Fatalf("expected error for missing title")
	}

	parseErr, ok := AsParseError(err)
	if !ok {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if parseErr.Field != "title" {
		t.Fatalf("expected field title, got %q", parseErr.Field)
	}
	if !errors.Is(err, ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
}

func TestBuildDocument_DateRequired(t *testing.T) {
	source := []byte("---\ntitle: Untimed\n---\n\nBody.\n")

	_, err := BuildDocument("untimed.md", source, time.Now())
	parseErr, ok := AsParseError(err)
	if !ok {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Field != "date" {
		t.Fatalf("expected field date, got %q", parseErr.Field)
	}
	if !errors.Is(err, ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
}

func TestBuildDocument_DateInvalid(t *testing.T) {
	source := []byte("---\ntitle: Bad Date\ndate: next tuesday\n---\n\nBody.\n")

	_, err := BuildDocument("bad-date.md", source, time.Now())
	parseErr, ok := AsParseError(err)
	if !ok {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Field != "date" {
		t.Fatalf("expected field date, got %q", parseErr.Field)
	}
	if !errors.Is(err, ErrFieldInvalid) {
		t.Fatalf("expected ErrFieldInvalid, got %v", err)
	}
	if !strings.Contains(parseErr.Error(), "next tuesday") {
		t.Fatalf("expected raw value in message, got %q", parseErr.Error())
	}
}

func TestBuildDocument_DateLayouts(t *testing.T) {
	cases := map[string]string{
		"date only":   "2024-01-02",
		"space time":  "2024-01-02 15:04:05",
		"rfc3339":     "2024-01-02T15:04:05Z",
		"local clock": "2024-01-02T15:04:05",
	}

	for name, raw := range cases {
		source := []byte("---\ntitle: Layout\ndate: \"" + raw + "\"\n---\n\nBody.\n")
		doc, err := BuildDocument("layout.md", source, time.Now())
		if err != nil {
			t.Fatalf("%s: BuildDocument: %v", name, err)
		}
		if doc.FrontMatter.Date.Year() != 2024 || doc.FrontMatter.Date.Month() != time.January {
			t.Fatalf("%s: unexpected date %v", name, doc.FrontMatter.Date)
		}
	}
}

func TestBuildDocument_DraftExplicit(t *testing.T) {
	source := []byte("---\ntitle: Hidden\ndate: 2024-01-01\ndraft: true\n---\n\nBody.\n")

	doc, err := BuildDocument("hidden.md", source, time.Now())
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if !doc.FrontMatter.Draft {
		t.Fatalf("expected draft true")
	}
	if doc.FrontMatter.Raw["draft"] != true {
		t.Fatalf("expected raw draft true: %#v", doc.FrontMatter.Raw)
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
