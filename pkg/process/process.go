// Package process runs external tools as structured argument vectors.
//
// A [Script] is an ordered list of [Command] values executed with "&&"
// semantics: execution stops at the first command that exits non-zero.
// Arguments are never interpreted by a shell; [Script.String] renders a
// shell-quoted form for diagnostics only.
package process

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ExitNotFound is the exit code reported when a command cannot be started,
// matching the shell convention for "command not found".
const ExitNotFound = 127

// Command is a single program invocation.
type Command struct {
	// Dir is the working directory. Empty means the caller's directory.
	Dir  string
	Args []string
}

// Cmd builds a command from its argument vector.
func Cmd(args ...string) Command {
	return Command{Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Name returns the program name, or "" for an empty command.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

func (c Command) String() string {
	quoted := make([]string, len(c.Args))
	for i, a := range c.Args {
		quoted[i] = quote(a)
	}
	line := strings.Join(quoted, " ")
	if c.Dir != "" {
		return "cd " + quote(c.Dir) + " && " + line
	}
	return line
}

// Script is a sequence of commands run until the first failure.
type Script []Command

// NewScript is shorthand for building a script from commands.
func NewScript(cmds ...Command) Script {
	return Script(cmds)
}

func (s Script) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ")
}

var userinfoRegex = regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.-]*://)[^/@\s]+@`)

// Redact hides credentials embedded in URLs, e.g. in a rendered script or
// in tool output.
func Redact(s string) string {
	return userinfoRegex.ReplaceAllString(s, "${1}***@")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}

// Result is the outcome of running a script.
type Result struct {
	// ExitCode of the last command run; 0 when every command succeeded.
	ExitCode int
	// Output is the captured standard output of every command run.
	Output string
	// ErrorOutput is the captured standard error of every command run.
	ErrorOutput string
}

// Success reports whether every command exited zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Lines splits the standard output into lines, dropping the trailing
// newline.
func (r Result) Lines() []string {
	out := strings.TrimRight(r.Output, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// OutputHandler receives standard output one line at a time, as it is
// produced. It may be nil.
type OutputHandler func(line string)

// Executor runs scripts. Implementations must stop at the first failing
// command and must honor context cancellation by terminating the running
// process.
type Executor interface {
	Execute(ctx context.Context, script Script, onOutput OutputHandler) Result
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, script Script, onOutput OutputHandler) Result

func (f ExecutorFunc) Execute(ctx context.Context, script Script, onOutput OutputHandler) Result {
	return f(ctx, script, onOutput)
}
