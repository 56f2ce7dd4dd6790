// Package pkg provides the libraries behind the composer package installer.
//
// # Overview
//
// The pkg directory is organized leaf-first:
//
//  1. [version] and [packages] - version normalization, constraints and the
//     package identity model
//  2. [repository] and [integrations] - registry metadata from Packagist
//     loaded into in-memory repositories
//  3. [downloader] - the acquisition registry deciding between source and
//     dist, with the version-control downloaders below it
//  4. [process], [filesystem], [console] and [session] - the collaborators a
//     downloader works through: external tools, the disk, the user and
//     cached credentials
//  5. [errors] and [observability] - error codes and instrumentation hooks
//
// # Data Flow
//
//	Packagist metadata
//	         ↓
//	    [repository] (best version for a constraint)
//	         ↓
//	    [downloader] Manager (source or dist?)
//	         ↓
//	    git driver (protocol fallback, credential recovery)
//	         ↓
//	    vendor/<name>
//
// # Quick Start
//
//	client, _ := packagist.NewClient("", 24*time.Hour)
//	registry := repository.NewPackagist(client, repository.NewLoader(nil), false)
//	pkg, _ := registry.Find(ctx, "monolog/monolog", version.MustParseConstraints("^3.0"))
//
//	fs := filesystem.NewOS()
//	manager := downloader.NewManager(downloader.WithPreferSource(true), downloader.WithFilesystem(fs))
//	manager.SetDownloader(downloader.Git, git.NewDownloader(process.NewOSExecutor(nil), fs, console.Null(), nil))
//	err := manager.Download(ctx, session.New(), pkg, "vendor/monolog/monolog")
//
// [version]: github.com/drupalprojects/composer/pkg/version
// [packages]: github.com/drupalprojects/composer/pkg/packages
// [repository]: github.com/drupalprojects/composer/pkg/repository
// [integrations]: github.com/drupalprojects/composer/pkg/integrations
// [downloader]: github.com/drupalprojects/composer/pkg/downloader
// [process]: github.com/drupalprojects/composer/pkg/process
// [filesystem]: github.com/drupalprojects/composer/pkg/filesystem
// [console]: github.com/drupalprojects/composer/pkg/console
// [session]: github.com/drupalprojects/composer/pkg/session
// [errors]: github.com/drupalprojects/composer/pkg/errors
// [observability]: github.com/drupalprojects/composer/pkg/observability
package pkg
