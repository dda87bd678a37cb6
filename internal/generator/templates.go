package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-static/pkg/interfaces"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// HTMLRenderer renders page contexts through html/template. It ships with
// embedded default templates and lets a theme override any of them by name
// from its templates directory.
type HTMLRenderer struct {
	mu        sync.RWMutex
	templates *template.Template
	globals   map[string]any
}

var _ interfaces.TemplateRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer builds a renderer from the embedded defaults, then applies
// overrides found under overrideDir. Passing an empty or missing directory
// keeps the defaults.
func NewHTMLRenderer(overrideDir string) (*HTMLRenderer, error) {
	root := template.New("static").Funcs(templateFuncs())

	if err := parseTemplateFS(root, defaultTemplates, "templates"); err != nil {
		return nil, fmt.Errorf("templates: parse defaults: %w", err)
	}

	if dir := strings.TrimSpace(overrideDir); dir != "" {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			if err := parseTemplateFS(root, os.DirFS(dir), "."); err != nil {
				return nil, fmt.Errorf("templates: parse overrides in %s: %w", dir, err)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("templates: stat override dir %s: %w", dir, err)
		}
	}

	return &HTMLRenderer{
		templates: root,
		globals:   map[string]any{},
	}, nil
}

// parseTemplateFS registers every .html file in dir under its base name, so a
// theme file named post.html replaces the embedded post template.
func parseTemplateFS(root *template.Template, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(value string) template.HTML {
			return template.HTML(value)
		},
		"safeCSS": func(value string) template.CSS {
			return template.CSS(value)
		},
		"themeCSS": func(vars map[string]string) template.CSS {
			if len(vars) == 0 {
				return ""
			}
			keys := make([]string, 0, len(vars))
			for key := range vars {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			var b strings.Builder
			b.WriteString(":root{")
			for _, key := range keys {
				b.WriteString(key)
				b.WriteString(":")
				b.WriteString(vars[key])
				b.WriteString(";")
			}
			b.WriteString("}")
			return template.CSS(b.String())
		},
		"formatDate": func(layout string, value time.Time) string {
			return value.Format(layout)
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"trim":  strings.TrimSpace,
	}
}

// Render executes the named template against data merged with the renderer
// globals. When out writers are provided the result is streamed to each of
// them as well as returned.
func (r *HTMLRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

// RenderTemplate executes the named template.
func (r *HTMLRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.mu.RLock()
	tmpl := r.templates.Lookup(name)
	r.mu.RUnlock()
	if tmpl == nil {
		return "", fmt.Errorf("templates: %q not registered", name)
	}
	return r.execute(tmpl, data, out...)
}

// RenderString parses templateContent as a one-off template and executes it.
func (r *HTMLRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tmpl, err := template.New("inline").Funcs(templateFuncs()).Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("templates: parse inline: %w", err)
	}
	return r.execute(tmpl, data, out...)
}

// GlobalContext registers values exposed to every template execution under
// the Globals key. It accepts a map of names to values.
func (r *HTMLRenderer) GlobalContext(data any) error {
	values, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("templates: global context requires map[string]any, got %T", data)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range values {
		r.globals[key] = value
	}
	return nil
}

func (r *HTMLRenderer) execute(tmpl *template.Template, data any, out ...io.Writer) (string, error) {
	payload := r.wrap(data)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload); err != nil {
		return "", fmt.Errorf("templates: execute %s: %w", tmpl.Name(), err)
	}

	for _, writer := range out {
		if writer == nil {
			continue
		}
		if _, err := writer.Write(buf.Bytes()); err != nil {
			return "", fmt.Errorf("templates: stream %s: %w", tmpl.Name(), err)
		}
	}
	return buf.String(), nil
}

// wrap attaches globals without disturbing typed contexts: a TemplateContext
// passes through untouched so templates keep field access, anything else is
// merged with the globals map.
func (r *HTMLRenderer) wrap(data any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.globals) == 0 {
		return data
	}
	if ctx, ok := data.(TemplateContext); ok {
		return ctx
	}
	merged := map[string]any{}
	for key, value := range r.globals {
		merged[key] = value
	}
	if values, ok := data.(map[string]any); ok {
		for key, value := range values {
			merged[key] = value
		}
		return merged
	}
	merged["Data"] = data
	return merged
}
