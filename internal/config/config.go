package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"nfogen/internal/nfoerr"
)

// General holds the settings every generator shares. Read-only after load.
type General struct {
	UserAgent      string `json:"user_agent"`
	Timeout        int    `json:"timeout"` // seconds
	RetryAttempts  int    `json:"retry_attempts"`
	RunMode        string `json:"run_mode"` // auto | manual | interactive
	ManualInput    bool   `json:"manual_input"`
	AutoCorrection bool   `json:"auto_correction"`
}

// Site holds the per-site defaults applied when a page omits them.
type Site struct {
	Name          string   `json:"name"`
	Domain        string   `json:"domain"`
	DefaultStudio string   `json:"default_studio"`
	DefaultTags   []string `json:"default_tags"`
}

type Config struct {
	General General         `json:"general"`
	Sites   map[string]Site `json:"sites"`
}

// Options are the CLI overrides. Zero values mean "not set"; explicit
// overrides always win over file and defaults.
type Options struct {
	Mode     string
	NoManual bool
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func Default() *Config {
	return &Config{
		General: General{
			UserAgent:      defaultUserAgent,
			Timeout:        10,
			RetryAttempts:  3,
			RunMode:        "interactive",
			ManualInput:    true,
			AutoCorrection: true,
		},
		Sites: map[string]Site{
			"ck-download": {
				Name:          "CK-Download",
				Domain:        "ck-download",
				DefaultStudio: "CK-Download",
				DefaultTags:   []string{"ck-download"},
			},
			"trance-video": {
				Name:          "Trance-Video",
				Domain:        "trance",
				DefaultStudio: "Trance-Video",
				DefaultTags:   []string{"trance", "music-video"},
			},
			"gay-torrents": {
				Name:          "Gay-Torrents",
				Domain:        "gay-torrents.net",
				DefaultStudio: "Gay-Torrents",
				DefaultTags:   []string{"gay-torrents"},
			},
		},
	}
}

// Save writes cfg to path as indented JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func loadJSON(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Start from defaults so a sparse file only has to name what it
	// changes; file site entries merge field-wise over the built-in ones.
	c := Default()
	var file struct {
		General json.RawMessage            `json:"general"`
		Sites   map[string]json.RawMessage `json:"sites"`
	}
	if err := json.Unmarshal(b, &file); err != nil {
		return nil, err
	}
	if file.General != nil {
		if err := json.Unmarshal(file.General, &c.General); err != nil {
			return nil, err
		}
	}
	for key, raw := range file.Sites {
		base := c.Sites[key]
		if err := json.Unmarshal(raw, &base); err != nil {
			return nil, err
		}
		c.Sites[key] = base
	}
	return c, nil
}

// LoadMerged resolves the effective configuration: built-in defaults, then
// the file at path (a missing file is fine), then CLI overrides.
func LoadMerged(path string, opts Options) (*Config, error) {
	cfg := Default()

	if path != "" {
		loaded, err := loadJSON(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// keep defaults
		case err != nil:
			return nil, nfoerr.Newf(nfoerr.KindConfiguration, "load config %s: %w", path, err)
		default:
			cfg = loaded
		}
	}

	if opts.Mode != "" {
		cfg.General.RunMode = opts.Mode
	}
	if opts.NoManual {
		cfg.General.ManualInput = false
		cfg.General.RunMode = "auto"
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline relies on. A failure here is
// a configuration error; no generator runs after one.
func Validate(cfg *Config) error {
	if cfg.General.Timeout <= 0 {
		return nfoerr.Newf(nfoerr.KindConfiguration, "timeout must be positive, got %d", cfg.General.Timeout)
	}
	if cfg.General.RetryAttempts < 0 {
		return nfoerr.Newf(nfoerr.KindConfiguration, "retry_attempts must be non-negative, got %d", cfg.General.RetryAttempts)
	}
	switch cfg.General.RunMode {
	case "auto", "manual", "interactive":
	default:
		return nfoerr.Newf(nfoerr.KindConfiguration, "run_mode must be auto, manual or interactive, got %q", cfg.General.RunMode)
	}
	for key, site := range cfg.Sites {
		if site.Name == "" || site.Domain == "" {
			return nfoerr.Newf(nfoerr.KindConfiguration, "site %q must set name and domain", key)
		}
	}
	return nil
}

// SiteOrDefault returns the configured entry for key, or an empty Site when
// the config names none.
func (c *Config) SiteOrDefault(key string) Site {
	if s, ok := c.Sites[key]; ok {
		return s
	}
	return Site{}
}

// WriteDefault creates the default config file at path, refusing to
// overwrite an existing one.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return Save(Default(), path)
}
