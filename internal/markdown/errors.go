package markdown

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFrontMatterMissing indicates a document without a delimited metadata block.
	ErrFrontMatterMissing = errors.New("markdown: frontmatter block is required")
	// ErrFieldMissing indicates a required frontmatter field was absent.
	ErrFieldMissing = errors.New("markdown: required frontmatter field is missing")
	// ErrFieldInvalid indicates a frontmatter field that failed to decode.
	ErrFieldInvalid = errors.New("markdown: frontmatter field is malformed")
)

// ParseError reports a document rejected during metadata parsing. Path is the
// document source location and Field names the offending frontmatter key when
// one can be identified.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "markdown: parse error"
	}
	field := strings.TrimSpace(e.Field)
	if field != "" {
		return fmt.Sprintf("markdown: parse %s: field %q: %v", e.Path, field, e.Err)
	}
	return fmt.Sprintf("markdown: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError reports a file or directory that could not be read. The failure is
// fatal for that path only; the surrounding pass continues.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "markdown: io error"
	}
	return fmt.Sprintf("markdown: read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsParseError unwraps err into a *ParseError when one is present.
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}

// AsIOError unwraps err into an *IOError when one is present.
func AsIOError(err error) (*IOError, bool) {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ioErr, true
	}
	return nil, false
}
