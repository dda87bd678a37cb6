package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

type themeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         themeManifestLoader
	defaultTheme   string
	defaultVariant string
}

func newThemeSelector(cfg ThemingConfig, loader themeManifestLoader) *themeSelector {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &themeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
	}
}

// Selection loads and registers the theme manifest under the configured path
// and resolves it into a concrete selection. A build without a theme
// directory runs unthemed, which is not an error.
func (s *themeSelector) Selection(cfg ThemingConfig) (*gotheme.Selection, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat theme path %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("theme path %s is not a directory", path)
	}

	manifest, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load theme manifest from %s: %w", path, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = s.defaultTheme
	}
	if normalized.Name == "" {
		return nil, fmt.Errorf("theme name required for manifest registration")
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   normalized.Name,
		DefaultVariant: s.defaultVariant,
	}

	selection, err := selector.Select(normalized.Name, s.defaultVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", normalized.Name, err)
	}
	return selection, nil
}
