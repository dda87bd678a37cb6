// Package site implements the publish pass: draft filtering, deterministic
// ordering, slug assignment, and the tag/archive indexes derived from a set
// of loaded documents. The pass is pure; running it twice over the same input
// yields an identical collection.
package site

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-static/pkg/interfaces"
)

// PublishOptions tunes a publish pass.
type PublishOptions struct {
	// IncludeDrafts keeps draft documents in the output, used for local
	// preview builds. Published listings never set this.
	IncludeDrafts bool
}

// Publish filters out draft documents and orders the remainder by date
// descending, ties broken by path ascending. Documents are wrapped as posts
// with normalized slugs and routes.
func Publish(docs []*interfaces.Document, opts PublishOptions) []*Post {
	posts := make([]*Post, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.FrontMatter.Draft && !opts.IncludeDrafts {
			continue
		}
		posts = append(posts, newPost(doc))
	}

	sort.SliceStable(posts, func(i, j int) bool {
		left, right := posts[i].Date(), posts[j].Date()
		if left.Equal(right) {
			return posts[i].Document.Path < posts[j].Document.Path
		}
		return left.After(right)
	})

	return posts
}

// Collect runs a publish pass and derives the tag and year archive indexes.
func Collect(docs []*interfaces.Document, opts PublishOptions) *Collection {
	posts := Publish(docs, opts)
	return &Collection{
		Posts:    posts,
		Tags:     groupTags(posts),
		Archives: groupArchives(posts),
	}
}

func newPost(doc *interfaces.Document) *Post {
	postSlug := normalizeSlug(doc)
	return &Post{
		Document: doc,
		Slug:     postSlug,
		Route:    routeFor(doc, postSlug),
	}
}

// normalizeSlug prefers an explicit frontmatter slug, then the title, then
// the file stem. go-slug rejects inputs that normalize to nothing; each
// candidate falls through to the next.
func normalizeSlug(doc *interfaces.Document) string {
	candidates := []string{
		doc.FrontMatter.Slug,
		doc.FrontMatter.Title,
		fileStem(doc.Path),
	}
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return normalized
		}
	}
	return "untitled"
}

func routeFor(doc *interfaces.Document, postSlug string) string {
	date := doc.FrontMatter.Date
	if date.IsZero() {
		return "/" + postSlug + "/"
	}
	return fmt.Sprintf("/%04d/%02d/%s/", date.Year(), int(date.Month()), postSlug)
}

func fileStem(p string) string {
	base := path.Base(strings.TrimSuffix(p, "/"))
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// TagRoute maps a raw tag to its listing route. Tags that do not survive slug
// normalization route to the tag index.
func TagRoute(tag string) string {
	tagSlug, err := slug.Normalize(strings.TrimSpace(tag))
	if err != nil || tagSlug == "" {
		return "/tags/"
	}
	return "/tags/" + tagSlug + "/"
}

func groupTags(posts []*Post) []TagGroup {
	byTag := map[string]*TagGroup{}
	for _, post := range posts {
		for _, tag := range post.Tags() {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tagSlug, err := slug.Normalize(tag)
			if err != nil || tagSlug == "" {
				continue
			}
			group := byTag[tagSlug]
			if group == nil {
				group = &TagGroup{
					Tag:   tag,
					Slug:  tagSlug,
					Route: TagRoute(tag),
				}
				byTag[tagSlug] = group
			}
			group.Posts = append(group.Posts, post)
		}
	}

	groups := make([]TagGroup, 0, len(byTag))
	for _, group := range byTag {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Slug < groups[j].Slug
	})
	return groups
}

func groupArchives(posts []*Post) []Archive {
	byYear := map[int]*Archive{}
	for _, post := range posts {
		date := post.Date()
		if date.IsZero() {
			continue
		}
		year := date.Year()
		archive := byYear[year]
		if archive == nil {
			archive = &Archive{Year: year}
			byYear[year] = archive
		}
		archive.Posts = append(archive.Posts, post)
	}

	archives := make([]Archive, 0, len(byYear))
	for _, archive := range byYear {
		archives = append(archives, *archive)
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Year > archives[j].Year
	})
	return archives
}
