package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/process"
)

const acmeFoo = `{
  "minified": "composer/2.0",
  "packages": {
    "acme/foo": [
      {
        "name": "acme/foo",
        "description": "Foo for acme",
        "version": "1.2.0",
        "version_normalized": "1.2.0.0",
        "license": ["MIT"],
        "source": {"type": "git", "url": "https://github.com/acme/foo.git", "reference": "c0ffee12"},
        "dist": {"type": "zip", "url": "https://example.org/foo-1.2.0.zip", "reference": "c0ffee12", "shasum": ""},
        "require": {"php": ">=8.1"}
      },
      {
        "version": "1.1.0",
        "version_normalized": "1.1.0.0",
        "source": {"type": "git", "url": "https://github.com/acme/foo.git", "reference": "beef0011"},
        "dist": {"type": "zip", "url": "https://example.org/foo-1.1.0.zip", "reference": "beef0011", "shasum": ""}
      }
    ]
  }
}`

// recordingExecutor succeeds for every script and remembers them.
type recordingExecutor struct {
	scripts []process.Script
}

func (r *recordingExecutor) Execute(_ context.Context, s process.Script, _ process.OutputHandler) process.Result {
	r.scripts = append(r.scripts, s)
	return process.Result{}
}

type cliFixture struct {
	cli    *CLI
	exec   *recordingExecutor
	io     *console.Buffer
	vendor string
	config string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/p2/acme/foo.json" {
			io.WriteString(w, acmeFoo)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	base := t.TempDir()
	cfgPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(`packagist-url = "`+server.URL+`"`+"\ncache-ttl = \"0s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &cliFixture{
		exec:   &recordingExecutor{},
		io:     console.NewBuffer(),
		vendor: filepath.Join(base, "vendor"),
		config: cfgPath,
	}
	vars := map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(base, "config"),
		"XDG_CACHE_HOME":  filepath.Join(base, "cache"),
	}
	f.cli = New(io.Discard, log.InfoLevel)
	f.cli.Executor = f.exec
	f.cli.IO = f.io
	f.cli.Getenv = func(k string) string { return vars[k] }
	return f
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := f.cli.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config", f.config, "--vendor-dir", f.vendor))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInstallCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "install", "acme/foo", "^1.0")
	if err != nil {
		t.Fatalf("install error: %v", err)
	}
	if !strings.Contains(out, "Installed acme/foo 1.2.0 from source") {
		t.Errorf("output = %q", out)
	}
	if got := f.io.Lines(); len(got) == 0 || got[0] != "  - Installing acme/foo (1.2.0)" {
		t.Errorf("console = %q", got)
	}

	if len(f.exec.scripts) != 2 {
		t.Fatalf("scripts = %d, want clone and push URL", len(f.exec.scripts))
	}
	clone := f.exec.scripts[0][0].Args
	wantDir := filepath.Join(f.vendor, "acme", "foo")
	if clone[1] != "clone" || clone[2] != "git://github.com/acme/foo.git" || clone[3] != wantDir {
		t.Errorf("clone = %q", clone)
	}
}

func TestInstallCommandPreferDist(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "install", "acme/foo", "--prefer-dist")
	if !errors.Is(err, errors.ErrCodeConfiguration) || !strings.Contains(err.Error(), "no downloader registered for type: zip") {
		t.Errorf("install error = %v", err)
	}
	if len(f.exec.scripts) != 0 {
		t.Errorf("git ran for a dist install")
	}
}

func TestInstallCommandNoMatch(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "install", "acme/foo", "^2.0")
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("install error = %v, want %s", err, errors.ErrCodePackageNotFound)
	}
}

func TestInstallCommandInvalidName(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "install", "not-a-package")
	if !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("install error = %v, want %s", err, errors.ErrCodeInvalidPackage)
	}
}

func TestUpdateCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "update", "acme/foo", "1.1.0", "1.2.0")
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if !strings.Contains(out, "Updated acme/foo to 1.2.0 from source") {
		t.Errorf("output = %q", out)
	}

	var rendered []string
	for _, s := range f.exec.scripts {
		rendered = append(rendered, strings.Join(s[0].Args, " "))
	}
	want := []string{
		"git status --porcelain --untracked-files=no",
		"git remote -v",
		"git remote add composer https://github.com/acme/foo.git",
		"git remote set-url composer git://github.com/acme/foo.git",
	}
	if strings.Join(rendered, "\n") != strings.Join(want, "\n") {
		t.Errorf("first commands =\n%s\nwant\n%s", strings.Join(rendered, "\n"), strings.Join(want, "\n"))
	}
}

func TestUpdateCommandInvalidSource(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "update", "acme/foo", "1.1.0", "1.2.0", "--installed-from", "tarball")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("update error = %v", err)
	}
}

func TestRemoveCommand(t *testing.T) {
	f := newCLIFixture(t)
	dir := filepath.Join(f.vendor, "acme", "foo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := f.run(t, "remove", "acme/foo", "1.2.0")
	if err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if !strings.Contains(out, "Removed acme/foo 1.2.0") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("package directory still exists: %v", err)
	}
}

func TestRemoveCommandUnpublishedVersion(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "remove", "acme/foo", "9.9.9")
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("remove error = %v", err)
	}
}

func TestShowCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "show", "acme/foo", "~1.1.0")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	for _, want := range []string{"acme/foo", "1.1.0", "beef0011"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommandJSON(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "show", "acme/foo", "--json")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if data["name"] != "acme/foo" || data["version_normalized"] != "1.2.0.0" {
		t.Errorf("dump = %v", data)
	}
}

func TestConflictingPreferences(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "show", "acme/foo", "--prefer-source", "--prefer-dist")
	if err == nil {
		t.Error("expected an error for --prefer-source with --prefer-dist")
	}
}

func TestParseInstallationSource(t *testing.T) {
	for _, in := range []string{"source", " Dist "} {
		if _, err := parseInstallationSource(in); err != nil {
			t.Errorf("parseInstallationSource(%q) error: %v", in, err)
		}
	}
	if _, err := parseInstallationSource(""); err == nil {
		t.Error("parseInstallationSource(\"\") succeeded")
	}
}

func TestPackageDir(t *testing.T) {
	vendor := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		vendorDir string
		pkg       string
		want      string
		wantErr   bool
	}{
		{"absolute vendor", vendor, "acme/foo", filepath.Join(vendor, "acme", "foo"), false},
		{"relative vendor", "vendor", "acme/foo", filepath.Join(wd, "vendor", "acme", "foo"), false},
		{"traversal", vendor, "../etc", "", true},
		{"absolute name", vendor, "/etc/passwd", "", true},
		{"backslash", vendor, `acme\foo`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, log.InfoLevel)
			c.Config.VendorDir = tt.vendorDir

			got, err := c.packageDir(tt.pkg)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPath) {
					t.Errorf("packageDir(%q) error = %v, want %s", tt.pkg, err, errors.ErrCodeInvalidPath)
				}
				return
			}
			if err != nil {
				t.Fatalf("packageDir(%q) error: %v", tt.pkg, err)
			}
			if got != tt.want {
				t.Errorf("packageDir(%q) = %q, want %q", tt.pkg, got, tt.want)
			}
		})
	}
}
