package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ErrContentDirRequired indicates the markdown content root is missing.
var ErrContentDirRequired = errors.New("static config: content directory is required")

// ErrOutputDirRequired indicates the generator output directory is missing.
var ErrOutputDirRequired = errors.New("static config: generator output directory is required")

// ErrLoggingLevelInvalid flags unsupported logging levels.
var ErrLoggingLevelInvalid = errors.New("static config: logging level is invalid")

// ErrLoggingFormatInvalid flags unsupported logging formats.
var ErrLoggingFormatInvalid = errors.New("static config: logging format is invalid")

// Config aggregates site metadata and module bindings for the generator.
// Fields intentionally use simple types so host applications can extend them
// later; the struct is passed explicitly into services, never held as ambient
// process state.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Theme     ThemeConfig     `yaml:"theme"`
	Generator GeneratorConfig `yaml:"generator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig carries presentation metadata surfaced to templates and feeds.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
}

// ContentConfig captures how markdown documents are discovered.
type ContentConfig struct {
	Dir       string               `yaml:"dir"`
	Pattern   string               `yaml:"pattern"`
	Recursive bool                 `yaml:"recursive"`
	Parser    MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for unmarshalling.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// ThemeConfig selects the theme manifest used for templates and assets.
type ThemeConfig struct {
	Path    string `yaml:"path"`
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// GeneratorConfig captures runtime behaviour toggles for build runs.
type GeneratorConfig struct {
	OutputDir       string `yaml:"output_dir"`
	CleanBuild      bool   `yaml:"clean_build"`
	Incremental     bool   `yaml:"incremental"`
	CopyAssets      bool   `yaml:"copy_assets"`
	GenerateSitemap bool   `yaml:"generate_sitemap"`
	GenerateRobots  bool   `yaml:"generate_robots"`
	GenerateFeeds   bool   `yaml:"generate_feeds"`
	FeedLimit       int    `yaml:"feed_limit"`
}

// LoggingConfig wires the go-logger provider options.
type LoggingConfig struct {
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the baseline configuration for a conventional layout:
// markdown under ./content, output under ./public.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Untitled Site",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Generator: GeneratorConfig{
			OutputDir:       "public",
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			FeedLimit:       100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFile reads a YAML site configuration and overlays it on the defaults.
// A missing file is not an error; callers get the defaults back.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("static config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("static config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural invariants before services are wired.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(c.Generator.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if !validLoggingLevel(c.Logging.Level) {
		return ErrLoggingLevelInvalid
	}
	if !validLoggingFormat(c.Logging.Format) {
		return ErrLoggingFormatInvalid
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.Generator, validation.By(func(any) error {
			if c.Generator.FeedLimit < 0 {
				return validation.NewError("static.config.feed_limit_invalid", "feed_limit must be zero or positive")
			}
			return nil
		})),
		validation.Field(&c.Site, validation.By(func(any) error {
			base := strings.TrimSpace(c.Site.BaseURL)
			if base == "" {
				return nil
			}
			if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
				return validation.NewError("static.config.base_url_invalid", "site base_url must be an absolute http(s) URL")
			}
			return nil
		})),
	)
}

func validLoggingLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func validLoggingFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "console", "pretty":
		return true
	default:
		return false
	}
}
