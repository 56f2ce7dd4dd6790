// Package downloader materializes packages on disk.
//
// A [Manager] is the acquisition registry: it maps each acquisition [Type]
// (a version-control system or an archive format) to a [Downloader], decides
// whether a package is installed from source or from dist, and routes
// install, update and remove requests to the right implementation.
//
// Source downloaders live in sub-packages: [vcs] holds the generic
// version-control machinery and [git] the git driver. Dist downloaders are
// registered by the embedding application.
//
// [vcs]: github.com/drupalprojects/composer/pkg/downloader/vcs
// [git]: github.com/drupalprojects/composer/pkg/downloader/git
package downloader

import (
	"context"
	"strings"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/session"
)

// Downloader installs, updates and removes packages of one acquisition type.
type Downloader interface {
	// InstallationSource declares whether this downloader works from source
	// or from dist.
	InstallationSource() packages.InstallationSource

	// Download installs pkg into path.
	Download(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error

	// Update moves the installation in path from initial to target.
	Update(ctx context.Context, sess *session.Session, initial, target packages.Package, path string) error

	// Remove deletes the installation of pkg in path.
	Remove(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error
}

// Type is an acquisition type: a version-control system or an archive format.
type Type string

const (
	Git Type = "git"
	Svn Type = "svn"
	Hg  Type = "hg"

	Zip  Type = "zip"
	Tar  Type = "tar"
	File Type = "file"
)

// Types lists every known acquisition type.
var Types = []Type{Git, Svn, Hg, Zip, Tar, File}

// ParseType resolves a type name case-insensitively.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if t.InstallationSource() == packages.NotInstalled {
		return "", errors.New(errors.ErrCodeConfiguration, "unknown downloader type: %s", name)
	}
	return t, nil
}

// InstallationSource returns the installation kind of packages acquired with
// this type, or NotInstalled for an unknown type.
func (t Type) InstallationSource() packages.InstallationSource {
	switch t {
	case Git, Svn, Hg:
		return packages.InstalledFromSource
	case Zip, Tar, File:
		return packages.InstalledFromDist
	}
	return packages.NotInstalled
}

func (t Type) String() string { return string(t) }
