package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "WP_JEKYLL_CONFIG"
	exportsEnv    = "WP_JEKYLL_EXPORTS"
	buildDirEnv   = "WP_JEKYLL_BUILD_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging             LoggingConfig     `yaml:"logging"`
	WpExports           string            `yaml:"wp_exports"`
	BuildDir            string            `yaml:"build_dir"`
	DownloadImages      bool              `yaml:"download_images"`
	TargetFormat        string            `yaml:"target_format"`
	DateFormat          string            `yaml:"date_format"`
	Taxonomies          TaxonomyConfig    `yaml:"taxonomies"`
	ItemTypeFilter      []string          `yaml:"item_type_filter"`
	ItemFieldFilter     map[string]string `yaml:"item_field_filter"`
	BodyReplace         []ReplaceRule     `yaml:"body_replace"`
	AttachmentURLFormat string            `yaml:"attachment_url_format"`
	UIDWpIDPrefix       bool              `yaml:"uid_wp_id_prefix"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TaxonomyConfig describes which category domains survive and how they are
// renamed on output.
type TaxonomyConfig struct {
	Filter      []string          `yaml:"filter"`
	EntryFilter map[string]string `yaml:"entry_filter"`
	NameMapping map[string]string `yaml:"name_mapping"`
}

// ReplaceRule is one ordered regex substitution applied to item bodies.
type ReplaceRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Load reads YAML configuration from path (or the WP_JEKYLL_CONFIG env var
// when path is empty) over built-in defaults, then applies environment
// overrides. An explicitly named file that cannot be read or parsed is an
// error; no file at all means defaults.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(exportsEnv); v != "" {
		c.WpExports = v
	}
	if v := os.Getenv(buildDirEnv); v != "" {
		c.BuildDir = v
	}
}

// TaxonomyFilterSet returns the taxonomy domain filter as a set.
func (c Config) TaxonomyFilterSet() map[string]struct{} {
	return toSet(c.Taxonomies.Filter)
}

// ItemTypeFilterSet returns the item type filter as a set.
func (c Config) ItemTypeFilterSet() map[string]struct{} {
	return toSet(c.ItemTypeFilter)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func defaultConfig() Config {
	return Config{
		Logging:      LoggingConfig{Level: "info"},
		WpExports:    "wp-exports",
		BuildDir:     "build",
		TargetFormat: "markdown",
		DateFormat:   "2006-01-02 15:04:05",
		Taxonomies: TaxonomyConfig{
			Filter:      []string{},
			EntryFilter: map[string]string{},
			NameMapping: map[string]string{
				"category": "categories",
				"post_tag": "tags",
			},
		},
		ItemTypeFilter:  []string{},
		ItemFieldFilter: map[string]string{},
	}
}
