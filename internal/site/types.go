package site

import (
	"time"

	"github.com/goliatone/go-static/pkg/interfaces"
)

// Post wraps a loaded document with the derived publication attributes the
// generator needs: a normalized slug and the site-relative route the page is
// served from.
type Post struct {
	Document *interfaces.Document
	Slug     string
	Route    string
}

// Title returns the post title from frontmatter.
func (p *Post) Title() string {
	if p == nil || p.Document == nil {
		return ""
	}
	return p.Document.FrontMatter.Title
}

// Date returns the publication date from frontmatter.
func (p *Post) Date() time.Time {
	if p == nil || p.Document == nil {
		return time.Time{}
	}
	return p.Document.FrontMatter.Date
}

// Summary returns the optional frontmatter summary.
func (p *Post) Summary() string {
	if p == nil || p.Document == nil {
		return ""
	}
	return p.Document.FrontMatter.Summary
}

// Tags returns the frontmatter tags.
func (p *Post) Tags() []string {
	if p == nil || p.Document == nil {
		return nil
	}
	return p.Document.FrontMatter.Tags
}

// Draft reports whether the underlying document is marked as a draft.
func (p *Post) Draft() bool {
	if p == nil || p.Document == nil {
		return false
	}
	return p.Document.FrontMatter.Draft
}

// TagGroup collects the published posts carrying a given tag.
type TagGroup struct {
	Tag   string
	Slug  string
	Route string
	Posts []*Post
}

// Archive collects the published posts for a calendar year, newest first.
type Archive struct {
	Year  int
	Posts []*Post
}

// Collection is the result of a publish pass: ordered published posts plus
// the derived tag and year indexes used for listing pages.
type Collection struct {
	Posts    []*Post
	Tags     []TagGroup
	Archives []Archive
}
