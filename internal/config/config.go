// Package config loads the command-line tool's settings from TOML and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/integrations/packagist"
)

const (
	// AppName names the configuration and cache directories.
	AppName = "composer"
	// FileName is the configuration file inside ConfigDir.
	FileName = "config.toml"
)

// Environment overrides, applied after the file.
const (
	EnvVendorDir    = "COMPOSER_VENDOR_DIR"
	EnvPreferSource = "COMPOSER_PREFER_SOURCE"
	EnvPreferDist   = "COMPOSER_PREFER_DIST"
)

// Config holds the settings that shape package acquisition.
type Config struct {
	VendorDir     string   `toml:"vendor-dir"`
	PreferSource  bool     `toml:"prefer-source"`
	PreferDist    bool     `toml:"prefer-dist"`
	GithubDomains []string `toml:"github-domains"`
	PackagistURL  string   `toml:"packagist-url"`
	CacheTTL      Duration `toml:"cache-ttl"`
	StoreAuths    bool     `toml:"store-auths"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		VendorDir:     "vendor",
		GithubDomains: []string{"github.com"},
		PackagistURL:  packagist.DefaultURL,
		CacheTTL:      Duration{24 * time.Hour},
	}
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Path is an explicit configuration file; it must exist. Empty means
	// the default file, which may be absent.
	Path string
	// Getenv reads the environment. Nil means os.Getenv.
	Getenv func(string) string
}

// Load returns DefaultConfig overlaid with the configuration file and then
// the environment.
func Load(opts LoadOptions) (Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := DefaultConfig()
	path, required := opts.Path, true
	if path == "" {
		dir, err := Dir(getenv)
		if err != nil {
			return cfg, err
		}
		path, required = filepath.Join(dir, FileName), false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "could not parse %s", path)
		}
	case os.IsNotExist(err) && !required:
	default:
		return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "could not read %s", path)
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvVendorDir); v != "" {
		cfg.VendorDir = v
	}
	for name, dst := range map[string]*bool{EnvPreferSource: &cfg.PreferSource, EnvPreferDist: &cfg.PreferDist} {
		v := getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeConfiguration, "%s must be a boolean, got %q", name, v)
		}
		*dst = b
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.PreferSource && c.PreferDist {
		return errors.New(errors.ErrCodeConfiguration, "prefer-source and prefer-dist cannot both be enabled")
	}
	if strings.TrimSpace(c.VendorDir) == "" {
		return errors.New(errors.ErrCodeConfiguration, "vendor-dir cannot be empty")
	}
	if c.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfiguration, "cache-ttl cannot be negative")
	}
	return errors.ValidateURL(c.PackagistURL)
}

// Dir returns $XDG_CONFIG_HOME/composer, or ~/.config/composer.
func Dir(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if base := getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfiguration, err, "could not locate the home directory")
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns $XDG_CACHE_HOME/composer, or ~/.cache/composer.
func CacheDir(getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if base := getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfiguration, err, "could not locate the home directory")
	}
	return filepath.Join(home, ".cache", AppName), nil
}
