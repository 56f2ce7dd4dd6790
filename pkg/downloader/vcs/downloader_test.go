package vcs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/session"
)

type fakeDriver struct {
	calls    []string
	dirty    error
	download error
}

func (d *fakeDriver) DoDownload(_ context.Context, _ *session.Session, pkg packages.Package, path string) error {
	d.calls = append(d.calls, "download "+pkg.SourceReference()+" "+path)
	return d.download
}

func (d *fakeDriver) DoUpdate(_ context.Context, _ *session.Session, initial, target packages.Package, path string) error {
	d.calls = append(d.calls, "update "+initial.SourceReference()+".."+target.SourceReference()+" "+path)
	return nil
}

func (d *fakeDriver) EnforceCleanDirectory(_ context.Context, path string) error {
	d.calls = append(d.calls, "status "+path)
	return d.dirty
}

func newSourcePackage(v, ref string) *packages.MemoryPackage {
	p := packages.NewMemoryPackage("acme/foo", v, v)
	p.SetSource("git", "https://github.com/acme/foo.git", ref)
	return p
}

func newVCSDownloader(driver Driver) (*Downloader, *console.Buffer, afero.Fs) {
	fs := afero.NewMemMapFs()
	buf := console.NewBuffer()
	return NewDownloader(driver, buf, filesystem.New(fs), log.New(io.Discard)), buf, fs
}

func TestDownloaderInstallationSource(t *testing.T) {
	d, _, _ := newVCSDownloader(&fakeDriver{})
	if got := d.InstallationSource(); got != packages.InstalledFromSource {
		t.Errorf("InstallationSource() = %v, want source", got)
	}
}

func TestDownloaderDownload(t *testing.T) {
	driver := &fakeDriver{}
	d, buf, fs := newVCSDownloader(driver)
	if err := afero.WriteFile(fs, "/vendor/acme/foo/stale.txt", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := d.Download(context.Background(), session.New(), newSourcePackage("1.0.0.0", "abc123"), "/vendor/acme/foo"); err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if exists, _ := afero.Exists(fs, "/vendor/acme/foo/stale.txt"); exists {
		t.Error("Download() kept stale files in the target directory")
	}
	if len(driver.calls) != 1 || driver.calls[0] != "download abc123 /vendor/acme/foo" {
		t.Errorf("driver calls = %q", driver.calls)
	}
	if got := buf.Lines(); len(got) != 2 || got[0] != "  - Installing acme/foo (1.0.0.0)" || got[1] != "" {
		t.Errorf("output = %q", got)
	}
}

func TestDownloaderMissingReference(t *testing.T) {
	driver := &fakeDriver{}
	d, _, _ := newVCSDownloader(driver)
	pkg := newSourcePackage("1.0.0.0", "")

	err := d.Download(context.Background(), session.New(), pkg, "/p")
	if !errors.Is(err, errors.ErrCodeConfiguration) || !strings.Contains(err.Error(), "missing reference information") {
		t.Errorf("Download() error = %v", err)
	}
	err = d.Update(context.Background(), session.New(), newSourcePackage("0.9.0.0", "old"), pkg, "/p")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Update() error = %v", err)
	}
	if len(driver.calls) != 0 {
		t.Errorf("driver was called: %q", driver.calls)
	}
}

func TestDownloaderUpdate(t *testing.T) {
	driver := &fakeDriver{}
	d, buf, _ := newVCSDownloader(driver)

	err := d.Update(context.Background(), session.New(), newSourcePackage("1.0.0.0", "aaa"), newSourcePackage("1.1.0.0", "bbb"), "/p")
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	want := []string{"status /p", "update aaa..bbb /p"}
	if strings.Join(driver.calls, "|") != strings.Join(want, "|") {
		t.Errorf("driver calls = %q, want %q", driver.calls, want)
	}
	if got := buf.Output(); got != "  - Updating acme/foo (1.1.0.0)" {
		t.Errorf("output = %q", got)
	}
}

func TestDownloaderUpdateDirty(t *testing.T) {
	driver := &fakeDriver{dirty: errors.New(errors.ErrCodeDirtyWorkingTree, "source directory /p has uncommitted changes")}
	d, _, _ := newVCSDownloader(driver)

	err := d.Update(context.Background(), session.New(), newSourcePackage("1.0.0.0", "aaa"), newSourcePackage("1.1.0.0", "bbb"), "/p")
	if !errors.Is(err, errors.ErrCodeDirtyWorkingTree) {
		t.Fatalf("Update() error = %v, want %s", err, errors.ErrCodeDirtyWorkingTree)
	}
	if len(driver.calls) != 1 {
		t.Errorf("driver calls = %q, want only the status check", driver.calls)
	}
}

func TestDownloaderRemove(t *testing.T) {
	driver := &fakeDriver{}
	d, buf, fs := newVCSDownloader(driver)
	if err := afero.WriteFile(fs, "/vendor/acme/foo/composer.json", []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := d.Remove(context.Background(), session.New(), newSourcePackage("1.0.0.0", "aaa"), "/vendor/acme/foo"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if exists, _ := afero.DirExists(fs, "/vendor/acme/foo"); exists {
		t.Error("Remove() left the directory behind")
	}
	if got := buf.Output(); got != "  - Removing acme/foo (1.0.0.0)" {
		t.Errorf("output = %q", got)
	}
}

func TestDownloaderRemoveDirty(t *testing.T) {
	driver := &fakeDriver{dirty: errors.New(errors.ErrCodeDirtyWorkingTree, "dirty")}
	d, buf, fs := newVCSDownloader(driver)
	if err := afero.WriteFile(fs, "/p/file", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := d.Remove(context.Background(), session.New(), newSourcePackage("1.0.0.0", "aaa"), "/p")
	if !errors.Is(err, errors.ErrCodeDirtyWorkingTree) {
		t.Fatalf("Remove() error = %v", err)
	}
	if exists, _ := afero.Exists(fs, "/p/file"); !exists {
		t.Error("Remove() deleted a dirty checkout")
	}
	if len(buf.Lines()) != 0 {
		t.Errorf("output = %q, want none", buf.Lines())
	}
}

func TestDownloaderRemoveFailure(t *testing.T) {
	d, _, _ := newVCSDownloader(&fakeDriver{})
	d.fs = filesystem.New(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	err := d.Remove(context.Background(), session.New(), newSourcePackage("1.0.0.0", "aaa"), "/p")
	if !errors.Is(err, errors.ErrCodeInternal) || !strings.Contains(errors.UserMessage(err), "could not completely delete /p") {
		t.Errorf("Remove() error = %v", err)
	}
}
