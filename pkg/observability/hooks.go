// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about package acquisition, external tool invocations,
// registry requests and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps the core free
// of observability frameworks and avoids import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAcquisitionHooks(&myAcquisitionHooks{})
//	    observability.SetProcessHooks(&myProcessHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Acquisition().OnStart(ctx, observability.OpInstall, pkg)
//	// ... clone the repository ...
//	observability.Acquisition().OnComplete(ctx, observability.OpInstall, pkg, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Operation names an acquisition step.
type Operation string

const (
	OpInstall Operation = "install"
	OpUpdate  Operation = "update"
	OpRemove  Operation = "remove"
)

// =============================================================================
// Acquisition Hooks
// =============================================================================

// AcquisitionHooks receives events from the download manager.
type AcquisitionHooks interface {
	OnStart(ctx context.Context, op Operation, pkg string)
	OnComplete(ctx context.Context, op Operation, pkg string, duration time.Duration, err error)
}

// =============================================================================
// Process Hooks
// =============================================================================

// ProcessHooks receives events for every external command script executed.
type ProcessHooks interface {
	OnCommandStart(ctx context.Context, command string)
	OnCommandComplete(ctx context.Context, command string, exitCode int, duration time.Duration)
}

// =============================================================================
// VCS Hooks
// =============================================================================

// VCSHooks receives events from the VCS retry state machine.
type VCSHooks interface {
	// OnProtocolFallback records a failed attempt over one hosting-provider protocol.
	OnProtocolFallback(ctx context.Context, url string, protocol string)

	// OnCredentialPrompt records an interactive credential request.
	OnCredentialPrompt(ctx context.Context, host string, attempt int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAcquisitionHooks is a no-op implementation of AcquisitionHooks.
type NoopAcquisitionHooks struct{}

func (NoopAcquisitionHooks) OnStart(context.Context, Operation, string) {}
func (NoopAcquisitionHooks) OnComplete(context.Context, Operation, string, time.Duration, error) {
}

// NoopProcessHooks is a no-op implementation of ProcessHooks.
type NoopProcessHooks struct{}

func (NoopProcessHooks) OnCommandStart(context.Context, string)                       {}
func (NoopProcessHooks) OnCommandComplete(context.Context, string, int, time.Duration) {}

// NoopVCSHooks is a no-op implementation of VCSHooks.
type NoopVCSHooks struct{}

func (NoopVCSHooks) OnProtocolFallback(context.Context, string, string) {}
func (NoopVCSHooks) OnCredentialPrompt(context.Context, string, int)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}
func (NoopCacheHooks) OnCacheSet(context.Context, string)  {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	acquisitionHooks AcquisitionHooks = NoopAcquisitionHooks{}
	processHooks     ProcessHooks     = NoopProcessHooks{}
	vcsHooks         VCSHooks         = NoopVCSHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetAcquisitionHooks registers custom acquisition hooks.
// This should be called once at application startup.
func SetAcquisitionHooks(h AcquisitionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		acquisitionHooks = h
	}
}

// SetProcessHooks registers custom process hooks.
func SetProcessHooks(h ProcessHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		processHooks = h
	}
}

// SetVCSHooks registers custom VCS hooks.
func SetVCSHooks(h VCSHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		vcsHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Acquisition returns the registered acquisition hooks.
func Acquisition() AcquisitionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return acquisitionHooks
}

// Process returns the registered process hooks.
func Process() ProcessHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return processHooks
}

// VCS returns the registered VCS hooks.
func VCS() VCSHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return vcsHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	acquisitionHooks = NoopAcquisitionHooks{}
	processHooks = NoopProcessHooks{}
	vcsHooks = NoopVCSHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
