package downloader

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/observability"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/session"
)

// Manager is the acquisition registry.
//
// Registration is safe for concurrent use. Operations on the same target
// directory must not run concurrently.
type Manager struct {
	preferSource bool
	preferDist   bool
	fs           *filesystem.Filesystem
	logger       *log.Logger

	mu          sync.RWMutex
	downloaders map[Type]Downloader
}

// Option configures a Manager.
type Option func(*Manager)

// WithPreferSource makes source installs the default for every package that
// has a source.
func WithPreferSource(prefer bool) Option {
	return func(m *Manager) { m.preferSource = prefer }
}

// WithPreferDist makes dist installs the default even for dev packages.
func WithPreferDist(prefer bool) Option {
	return func(m *Manager) { m.preferDist = prefer }
}

// WithFilesystem sets the filesystem used to prepare target directories.
func WithFilesystem(fs *filesystem.Filesystem) Option {
	return func(m *Manager) { m.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty registry. Without options it uses the OS
// filesystem and log.Default().
func NewManager(opts ...Option) *Manager {
	m := &Manager{downloaders: make(map[Type]Downloader)}
	for _, opt := range opts {
		opt(m)
	}
	if m.fs == nil {
		m.fs = filesystem.NewOS()
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	return m
}

// PreferSource reports the default source preference.
func (m *Manager) PreferSource() bool { return m.preferSource }

// PreferDist reports the dist preference.
func (m *Manager) PreferDist() bool { return m.preferDist }

// SetDownloader registers d for typ. The downloader's declared installation
// source must agree with the kind of typ.
func (m *Manager) SetDownloader(typ Type, d Downloader) error {
	kind := typ.InstallationSource()
	if kind == packages.NotInstalled {
		return errors.New(errors.ErrCodeConfiguration, "unknown downloader type: %s", typ)
	}
	if d == nil {
		return errors.New(errors.ErrCodeConfiguration, "no downloader given for type %s", typ)
	}
	if got := d.InstallationSource(); got != kind {
		return errors.New(errors.ErrCodeConsistency,
			"a %s type downloader can not be registered for %s, which is a %s type", got, typ, kind)
	}

	m.mu.Lock()
	m.downloaders[typ] = d
	m.mu.Unlock()
	return nil
}

// Downloader returns the downloader registered for the named type.
func (m *Manager) Downloader(name string) (Downloader, error) {
	typ, err := ParseType(name)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	d, ok := m.downloaders[typ]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeConfiguration, "no downloader registered for type: %s", typ)
	}
	return d, nil
}

// DownloaderForInstalledPackage returns the downloader serving pkg according
// to its recorded installation source.
func (m *Manager) DownloaderForInstalledPackage(pkg packages.Package) (Downloader, error) {
	var name string
	switch src := pkg.InstallationSource(); src {
	case packages.InstalledFromDist:
		name = pkg.DistType()
	case packages.InstalledFromSource:
		name = pkg.SourceType()
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "package %s seems not been installed properly", pkg)
	}

	d, err := m.Downloader(name)
	if err != nil {
		return nil, err
	}
	if got, want := d.InstallationSource(), pkg.InstallationSource(); got != want {
		return nil, errors.New(errors.ErrCodeConsistency,
			"downloader for %q is a %s type downloader and can not be used to download %s", name, got, want)
	}
	return d, nil
}

// DownloadOption adjusts a single Download call.
type DownloadOption func(*downloadOptions)

type downloadOptions struct {
	preferSource *bool
}

// PreferSource overrides the manager's source preference for one download.
func PreferSource(prefer bool) DownloadOption {
	return func(o *downloadOptions) { o.preferSource = &prefer }
}

// Download installs pkg into targetDir, choosing between its source and
// dist, and records the choice on the package.
func (m *Manager) Download(ctx context.Context, sess *session.Session, pkg packages.Package, targetDir string, opts ...DownloadOption) (err error) {
	defer m.track(ctx, observability.OpInstall, pkg)(&err)
	return m.download(ctx, sess, pkg, targetDir, opts...)
}

func (m *Manager) download(ctx context.Context, sess *session.Session, pkg packages.Package, targetDir string, opts ...DownloadOption) error {
	o := downloadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	preferSource := m.preferSource
	if o.preferSource != nil {
		preferSource = *o.preferSource
	}

	source, err := m.selectInstallationSource(pkg, preferSource)
	if err != nil {
		return err
	}
	pkg.SetInstallationSource(source)
	m.logger.Debug("selected installation source", "package", pkg.PrettyString(), "source", source)

	if err := m.fs.EnsureDirectoryExists(targetDir); err != nil {
		return err
	}
	d, err := m.DownloaderForInstalledPackage(pkg)
	if err != nil {
		return err
	}
	return d.Download(ctx, sess, pkg, targetDir)
}

func (m *Manager) selectInstallationSource(pkg packages.Package, preferSource bool) (packages.InstallationSource, error) {
	hasSource := pkg.SourceType() != ""
	hasDist := pkg.DistType() != ""

	switch {
	case (!pkg.IsDev() || m.preferDist || !hasSource) && !(preferSource && hasSource) && hasDist:
		return packages.InstalledFromDist, nil
	case hasSource:
		return packages.InstalledFromSource, nil
	}
	return packages.NotInstalled, errors.New(errors.ErrCodeConfiguration, "package %s must have a source or dist specified", pkg)
}

// Update moves the installation in targetDir from initial to target. When
// the installation cannot be updated in place, it is removed and target is
// downloaded afresh.
func (m *Manager) Update(ctx context.Context, sess *session.Session, initial, target packages.Package, targetDir string) (err error) {
	defer m.track(ctx, observability.OpUpdate, target)(&err)

	d, err := m.DownloaderForInstalledPackage(initial)
	if err != nil {
		return err
	}
	source := initial.InstallationSource()

	// A dev target cannot be served from a dist install.
	if target.IsDev() && source == packages.InstalledFromDist {
		m.logger.Debug("reinstalling from source", "from", initial.PrettyString(), "to", target.PrettyString())
		if err := d.Remove(ctx, sess, initial, targetDir); err != nil {
			return err
		}
		return m.download(ctx, sess, target, targetDir, PreferSource(true))
	}

	initialType, targetType := initial.SourceType(), target.SourceType()
	if source == packages.InstalledFromDist {
		initialType, targetType = initial.DistType(), target.DistType()
	}

	if initialType == targetType {
		target.SetInstallationSource(source)
		return d.Update(ctx, sess, initial, target, targetDir)
	}

	m.logger.Debug("acquisition type changed", "package", target.PrettyString(), "from", initialType, "to", targetType)
	if err := d.Remove(ctx, sess, initial, targetDir); err != nil {
		return err
	}
	return m.download(ctx, sess, target, targetDir, PreferSource(source == packages.InstalledFromSource))
}

// Remove deletes the installation of pkg in targetDir.
func (m *Manager) Remove(ctx context.Context, sess *session.Session, pkg packages.Package, targetDir string) (err error) {
	defer m.track(ctx, observability.OpRemove, pkg)(&err)

	d, err := m.DownloaderForInstalledPackage(pkg)
	if err != nil {
		return err
	}
	return d.Remove(ctx, sess, pkg, targetDir)
}

func (m *Manager) track(ctx context.Context, op observability.Operation, pkg packages.Package) func(*error) {
	name := pkg.PrettyString()
	hooks := observability.Acquisition()
	hooks.OnStart(ctx, op, name)
	start := time.Now()
	return func(errp *error) {
		hooks.OnComplete(ctx, op, name, time.Since(start), *errp)
	}
}
