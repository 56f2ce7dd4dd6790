package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/drupalprojects/composer/pkg/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(LoadOptions{Getenv: env(map[string]string{"XDG_CONFIG_HOME": t.TempDir()})})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	if cfg.VendorDir != want.VendorDir || cfg.PackagistURL != want.PackagistURL || cfg.CacheTTL != want.CacheTTL {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if !slices.Equal(cfg.GithubDomains, []string{"github.com"}) {
		t.Errorf("GithubDomains = %v", cfg.GithubDomains)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
vendor-dir = "lib"
prefer-source = true
github-domains = ["github.com", "git.example.org"]
packagist-url = "https://packagist.example.org"
cache-ttl = "90m"
store-auths = true
`)
	cfg, err := Load(LoadOptions{Path: path, Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.VendorDir != "lib" || !cfg.PreferSource || cfg.PreferDist || !cfg.StoreAuths {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.CacheTTL.Duration != 90*time.Minute {
		t.Errorf("CacheTTL = %v, want 90m", cfg.CacheTTL)
	}
	if len(cfg.GithubDomains) != 2 || cfg.PackagistURL != "https://packagist.example.org" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadDefaultFileLocation(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, AppName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, AppName, FileName), []byte(`vendor-dir = "deps"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(LoadOptions{Getenv: env(map[string]string{"XDG_CONFIG_HOME": base})})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VendorDir != "deps" {
		t.Errorf("VendorDir = %q, want deps", cfg.VendorDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `prefer-source = true`)
	cfg, err := Load(LoadOptions{Path: path, Getenv: env(map[string]string{
		EnvVendorDir:    "/opt/vendor",
		EnvPreferSource: "false",
		EnvPreferDist:   "1",
	})})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.VendorDir != "/opt/vendor" || cfg.PreferSource || !cfg.PreferDist {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"invalid toml", `vendor-dir = `, nil},
		{"invalid duration", `cache-ttl = "soon"`, nil},
		{"both preferences", "prefer-source = true\nprefer-dist = true", nil},
		{"empty vendor dir", `vendor-dir = " "`, nil},
		{"bad packagist url", `packagist-url = "ftp://example.org"`, nil},
		{"bad env boolean", ``, map[string]string{EnvPreferDist: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Path: writeConfig(t, tt.content), Getenv: env(tt.env)})
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.toml"), Getenv: env(nil)})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeConfiguration)
	}
}

func TestDirs(t *testing.T) {
	getenv := env(map[string]string{"XDG_CONFIG_HOME": "/cfg", "XDG_CACHE_HOME": "/cache"})
	if dir, _ := Dir(getenv); dir != filepath.Join("/cfg", AppName) {
		t.Errorf("Dir() = %q", dir)
	}
	if dir, _ := CacheDir(getenv); dir != filepath.Join("/cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if dir, _ := Dir(env(nil)); dir != filepath.Join(home, ".config", AppName) {
		t.Errorf("Dir() = %q", dir)
	}
	if dir, _ := CacheDir(env(nil)); dir != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
}
