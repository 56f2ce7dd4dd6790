// Package vcs implements source downloads over a version-control client.
//
// [Downloader] holds what every version-control system shares: progress
// messages, reference checks, the clean-directory guard and directory
// removal. A [Driver] supplies the system-specific commands, which it runs
// through a [Runner] so they get protocol fallback and credential recovery.
package vcs

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/session"
)

// Driver runs the commands of one version-control system.
type Driver interface {
	// DoDownload checks out pkg's source reference into the empty path.
	DoDownload(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error
	// DoUpdate moves the checkout in path from initial to target.
	DoUpdate(ctx context.Context, sess *session.Session, initial, target packages.Package, path string) error
	// EnforceCleanDirectory fails when path has uncommitted changes to
	// tracked files.
	EnforceCleanDirectory(ctx context.Context, path string) error
}

// Downloader installs packages from source with a Driver.
type Downloader struct {
	driver Driver
	io     console.IO
	fs     *filesystem.Filesystem
	logger *log.Logger
}

// NewDownloader creates a source downloader. A nil logger uses log.Default().
func NewDownloader(driver Driver, io console.IO, fs *filesystem.Filesystem, logger *log.Logger) *Downloader {
	if logger == nil {
		logger = log.Default()
	}
	return &Downloader{driver: driver, io: io, fs: fs, logger: logger}
}

func (d *Downloader) InstallationSource() packages.InstallationSource {
	return packages.InstalledFromSource
}

func (d *Downloader) Download(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error {
	if pkg.SourceReference() == "" {
		return errors.New(errors.ErrCodeConfiguration, "package %s is missing reference information", pkg.PrettyName())
	}

	d.io.Write(fmt.Sprintf("  - Installing %s (%s)", pkg.Name(), pkg.PrettyVersion()))
	if err := d.fs.RemoveDirectory(path); err != nil {
		return err
	}
	if err := d.driver.DoDownload(ctx, sess, pkg, path); err != nil {
		return err
	}
	d.io.Write("")
	return nil
}

func (d *Downloader) Update(ctx context.Context, sess *session.Session, initial, target packages.Package, path string) error {
	if target.SourceReference() == "" {
		return errors.New(errors.ErrCodeConfiguration, "package %s is missing reference information", target.PrettyName())
	}

	d.io.Write(fmt.Sprintf("  - Updating %s (%s)", target.Name(), target.PrettyVersion()))
	if err := d.driver.EnforceCleanDirectory(ctx, path); err != nil {
		return err
	}
	return d.driver.DoUpdate(ctx, sess, initial, target, path)
}

func (d *Downloader) Remove(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error {
	if err := d.driver.EnforceCleanDirectory(ctx, path); err != nil {
		return err
	}
	d.io.Write(fmt.Sprintf("  - Removing %s (%s)", pkg.Name(), pkg.PrettyVersion()))
	if err := d.fs.RemoveDirectory(path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "could not completely delete %s, aborting", path)
	}
	d.logger.Debug("removed package", "package", pkg.PrettyString(), "path", path)
	return nil
}
