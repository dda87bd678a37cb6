package markdown

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-static/pkg/interfaces"
)

// dateLayouts enumerates the timestamp formats accepted in frontmatter, most
// specific first. Documents whose date matches none of them are rejected, not
// silently defaulted.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. A document without a delimited metadata block is an
// error; so is a metadata block that fails to decode.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	meta, body, err := parseEnvelope(source)
	if err != nil {
		return interfaces.FrontMatter{}, nil, err
	}
	return envelopeToFrontMatter(meta), body, nil
}

func parseEnvelope(source []byte) (frontMatterEnvelope, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.MustParse(reader, &meta)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return frontMatterEnvelope{}, nil, ErrFrontMatterMissing
		}
		return frontMatterEnvelope{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily. Required fields (title, date) are validated here
// so every rejection carries the document path and the offending field.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := parseEnvelope(source)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if strings.TrimSpace(meta.Title) == "" {
		return nil, &ParseError{Path: path, Field: "title", Err: ErrFieldMissing}
	}
	if meta.Date.bad {
		return nil, &ParseError{
			Path:  path,
			Field: "date",
			Err:   fmt.Errorf("%w: cannot parse %q as timestamp", ErrFieldInvalid, meta.Date.raw),
		}
	}
	if meta.Date.value.IsZero() {
		return nil, &ParseError{Path: path, Field: "date", Err: ErrFieldMissing}
	}

	sum := sha256.Sum256(source)

	return &interfaces.Document{
		Path:         path,
		FrontMatter:  envelopeToFrontMatter(meta),
		Body:         body,
		LastModified: modified,
		Checksum:     sum[:],
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title" toml:"title" json:"title"`
	Slug    string         `yaml:"slug" toml:"slug" json:"slug"`
	Summary string         `yaml:"summary" toml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" toml:"tags" json:"tags"`
	Author  string         `yaml:"author" toml:"author" json:"author"`
	Date    documentDate   `yaml:"date" toml:"date" json:"date"`
	Draft   bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

// documentDate decodes frontmatter timestamps without failing the whole
// envelope: unparseable input is recorded so the caller can attribute the
// rejection to the date field specifically.
type documentDate struct {
	value time.Time
	raw   string
	bad   bool
}

func (d *documentDate) UnmarshalYAML(unmarshal func(any) error) error {
	var ts time.Time
	if err := unmarshal(&ts); err == nil {
		d.value = ts
		return nil
	}

	var text string
	if err := unmarshal(&text); err != nil {
		var raw any
		_ = unmarshal(&raw)
		d.raw = fmt.Sprint(raw)
		d.bad = true
		return nil
	}
	d.set(text)
	return nil
}

func (d *documentDate) UnmarshalText(text []byte) error {
	d.set(string(text))
	return nil
}

func (d *documentDate) set(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			d.value = parsed
			return
		}
	}
	d.raw = text
	d.bad = true
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+7)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.value.IsZero() {
		raw["date"] = env.Date.value
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    env.Date.value,
		Draft:   env.Draft,
		Custom:  cloneMap(env.Custom),
		Raw:     raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
