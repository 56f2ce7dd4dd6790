package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Installed monolog/monolog 3.5.0 (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// LogHooks reports acquisition, process and version-control events to a
// logger at debug level. Register it with RegisterLogHooks.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks for logger as the global hooks.
func RegisterLogHooks(logger *log.Logger) {
	h := LogHooks{Logger: logger}
	observability.SetAcquisitionHooks(h)
	observability.SetProcessHooks(h)
	observability.SetVCSHooks(h)
}

func (h LogHooks) OnStart(_ context.Context, op observability.Operation, pkg string) {
	h.Logger.Debug("acquisition started", "op", op, "package", pkg)
}

func (h LogHooks) OnComplete(_ context.Context, op observability.Operation, pkg string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("acquisition failed", "op", op, "package", pkg, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("acquisition finished", "op", op, "package", pkg, "duration", d.Round(time.Millisecond))
}

func (h LogHooks) OnCommandStart(_ context.Context, command string) {
	h.Logger.Debug("command started", "cmd", command)
}

func (h LogHooks) OnCommandComplete(_ context.Context, command string, exitCode int, d time.Duration) {
	h.Logger.Debug("command finished", "cmd", command, "exit", exitCode, "duration", d.Round(time.Millisecond))
}

func (h LogHooks) OnProtocolFallback(_ context.Context, url, protocol string) {
	h.Logger.Debug("protocol failed, trying next", "protocol", protocol)
}

func (h LogHooks) OnCredentialPrompt(_ context.Context, host string, attempt int) {
	h.Logger.Debug("asking for credentials", "host", host, "attempt", attempt)
}
