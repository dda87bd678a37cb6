// Package markdown turns frontmatter-tagged markdown files into documents.
// It owns the split between metadata block and body, required field
// validation, goldmark rendering, and the continue-on-error directory loader
// whose per-file failures aggregate into a LoadReport instead of aborting the
// pass.
package markdown
