package vcs

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/observability"
	"github.com/drupalprojects/composer/pkg/process"
	"github.com/drupalprojects/composer/pkg/session"
)

// DefaultMaxAuthAttempts bounds the interactive credential prompts per run.
const DefaultMaxAuthAttempts = 3

// DefaultProtocols is the order in which hosting-provider URLs are tried.
var DefaultProtocols = []string{"git", "https", "http"}

// Build returns the script to run against one candidate URL.
type Build func(url string) process.Script

// Runner executes version-control commands with protocol fallback and
// credential recovery.
type Runner struct {
	// Tool is the client binary, probed with "--version" before failing.
	Tool            string
	Protocols       []string
	Providers       []*Provider
	MaxAuthAttempts int

	executor process.Executor
	fs       *filesystem.Filesystem
	io       console.IO
	logger   *log.Logger
}

// NewRunner creates a runner for tool with the default protocols and
// attempt bound. A nil logger uses log.Default(); no providers means
// DefaultHost only.
func NewRunner(tool string, executor process.Executor, fs *filesystem.Filesystem, io console.IO, logger *log.Logger, providers ...*Provider) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if len(providers) == 0 {
		providers = Providers()
	}
	return &Runner{
		Tool:            tool,
		Protocols:       DefaultProtocols,
		Providers:       providers,
		MaxAuthAttempts: DefaultMaxAuthAttempts,
		executor:        executor,
		fs:              fs,
		io:              io,
		logger:          logger,
	}
}

// IO returns the console the runner reports to.
func (r *Runner) IO() console.IO { return r.io }

// Execute runs script once without any recovery. Its output is not shown.
func (r *Runner) Execute(ctx context.Context, script process.Script) process.Result {
	return r.executor.Execute(ctx, script, nil)
}

// Run executes the script built for rawURL. When path is not empty it is
// removed after every failed attempt so each retry starts from a clean
// directory.
//
// Repository URLs of a known provider are tried over each protocol in turn.
// A failing SSH URL of a known provider is retried over HTTPS with
// credentials when the console is interactive.
func (r *Runner) Run(ctx context.Context, sess *session.Session, build Build, rawURL, path string) error {
	for _, p := range r.Providers {
		if suffix, ok := p.MatchRepoURL(rawURL); ok {
			return r.runProtocols(ctx, build, rawURL, suffix, path)
		}
	}

	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}
	script := build(rawURL)
	res := r.executor.Execute(ctx, script, r.outputHandler())
	if res.Success() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		r.cleanup(path)
		return interrupted(err)
	}

	if r.io.IsInteractive() {
		for _, p := range r.Providers {
			if repo, ok := p.MatchSSH(rawURL); ok {
				return r.runWithCredentials(ctx, sess, build, rawURL, p, repo, path)
			}
		}
	}

	r.cleanup(path)
	return r.fail(ctx, rawURL, errors.New(errors.ErrCodeProcessFailure,
		"failed to execute %s\n\n%s", process.Redact(script.String()), process.Redact(res.ErrorOutput)))
}

func (r *Runner) runProtocols(ctx context.Context, build Build, rawURL, suffix, path string) error {
	var messages []string
	for _, protocol := range r.Protocols {
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		candidate := protocol + suffix
		res := r.executor.Execute(ctx, build(candidate), r.outputHandler())
		if res.Success() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			r.cleanup(path)
			return interrupted(err)
		}

		observability.VCS().OnProtocolFallback(ctx, candidate, protocol)
		r.logger.Debug("protocol attempt failed", "url", process.Redact(candidate), "exit", res.ExitCode)
		messages = append(messages, "- "+process.Redact(candidate)+"\n"+indent(process.Redact(res.ErrorOutput)))
		r.cleanup(path)
	}

	return r.fail(ctx, rawURL, errors.New(errors.ErrCodeProtocolExhausted,
		"failed to clone %s via %s protocols, aborting.\n\n%s",
		process.Redact(rawURL), joinProtocols(r.Protocols), strings.Join(messages, "\n")))
}

func (r *Runner) runWithCredentials(ctx context.Context, sess *session.Session, build Build, rawURL string, p *Provider, repo, path string) error {
	host := p.Host()
	var script process.Script
	var res process.Result

	retrying := false
	for attempt := 1; attempt <= r.MaxAuthAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		if retrying {
			r.io.Write("Invalid credentials")
		}
		if retrying || !sess.HasAuthorization(host) {
			if err := r.prompt(ctx, sess, host, attempt); err != nil {
				r.cleanup(path)
				return err
			}
		}

		cred, _ := sess.Authorization(host)
		script = build(p.AuthenticatedURL(repo, cred))
		res = r.executor.Execute(ctx, script, r.outputHandler())
		if res.Success() {
			return nil
		}
		r.logger.Debug("authenticated attempt failed", "host", host, "attempt", attempt, "exit", res.ExitCode)
		r.cleanup(path)
		retrying = true
	}

	return r.fail(ctx, rawURL, errors.New(errors.ErrCodeAuthenticationExhausted,
		"failed to authenticate to %s after %d attempts, aborting.\n\nfailed to execute %s\n\n%s",
		host, r.MaxAuthAttempts, process.Redact(script.String()), process.Redact(res.ErrorOutput)))
}

func (r *Runner) prompt(ctx context.Context, sess *session.Session, host string, attempt int) error {
	observability.VCS().OnCredentialPrompt(ctx, host, attempt)
	username, err := r.io.Ask("Username: ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuthenticationExhausted, err, "could not read username for %s", host)
	}
	password, err := r.io.AskHidden("Password: ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuthenticationExhausted, err, "could not read password for %s", host)
	}
	sess.SetAuthorization(host, username, password)
	return nil
}

// fail returns err, or a TOOL_MISSING error when the client binary itself
// cannot be run. A cancelled ctx is reported as an interruption.
func (r *Runner) fail(ctx context.Context, rawURL string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return interrupted(cerr)
	}
	probe := r.executor.Execute(context.WithoutCancel(ctx), process.NewScript(process.Cmd(r.Tool, "--version")), nil)
	if !probe.Success() {
		return errors.Wrap(errors.ErrCodeToolMissing, err,
			"failed to clone %s, %s was not found, check that it is installed and in your PATH env.\n\n%s",
			process.Redact(rawURL), r.Tool, process.Redact(probe.ErrorOutput))
	}
	return err
}

func (r *Runner) outputHandler() process.OutputHandler {
	if !r.io.IsVerbose() {
		return nil
	}
	return func(line string) { r.io.Write(process.Redact(line)) }
}

func (r *Runner) cleanup(path string) {
	if path == "" {
		return
	}
	if err := r.fs.RemoveDirectory(path); err != nil {
		r.logger.Debug("could not clean up after failed attempt", "path", path, "err", err)
	}
}

func interrupted(cause error) error {
	return errors.Wrap(errors.ErrCodeProcessFailure, cause, "interrupted")
}

func indent(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return "  "
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func joinProtocols(p []string) string {
	switch len(p) {
	case 0:
		return "no"
	case 1:
		return p[0]
	}
	return strings.Join(p[:len(p)-1], ", ") + " and " + p[len(p)-1]
}
