package process

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/observability"
)

// OSExecutor runs scripts as child processes of the current program.
type OSExecutor struct {
	// Env is appended to the inherited environment of every command.
	Env    []string
	Logger *log.Logger
}

var _ Executor = (*OSExecutor)(nil)

// NewOSExecutor creates an executor. A nil logger uses log.Default().
func NewOSExecutor(logger *log.Logger, env ...string) *OSExecutor {
	if logger == nil {
		logger = log.Default()
	}
	return &OSExecutor{Env: env, Logger: logger}
}

// Execute runs each command in order and stops at the first non-zero exit.
func (e *OSExecutor) Execute(ctx context.Context, script Script, onOutput OutputHandler) Result {
	var out, errOut bytes.Buffer
	for _, c := range script {
		if err := ctx.Err(); err != nil {
			errOut.WriteString(err.Error() + "\n")
			return Result{ExitCode: -1, Output: out.String(), ErrorOutput: errOut.String()}
		}
		code := e.run(ctx, c, &out, &errOut, onOutput)
		if code != 0 {
			return Result{ExitCode: code, Output: out.String(), ErrorOutput: errOut.String()}
		}
	}
	return Result{Output: out.String(), ErrorOutput: errOut.String()}
}

func (e *OSExecutor) run(ctx context.Context, c Command, out, errOut *bytes.Buffer, onOutput OutputHandler) int {
	if len(c.Args) == 0 {
		errOut.WriteString("empty command\n")
		return ExitNotFound
	}

	line := Redact(c.String())
	hooks := observability.Process()
	hooks.OnCommandStart(ctx, line)
	e.Logger.Debug("running command", "cmd", line)
	start := time.Now()

	code := e.exec(ctx, c, out, errOut, onOutput)

	dur := time.Since(start)
	hooks.OnCommandComplete(ctx, line, code, dur)
	e.Logger.Debug("command finished", "cmd", line, "exit", code, "duration", dur)
	return code
}

func (e *OSExecutor) exec(ctx context.Context, c Command, out, errOut *bytes.Buffer, onOutput OutputHandler) int {
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stderr = errOut

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", c.Name(), err)
		return ExitNotFound
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", c.Name(), err)
		return ExitNotFound
	}

	// Lines have no length cap; the pipe is read to EOF so Wait cannot block.
	reader := bufio.NewReader(stdout)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			out.WriteString(text)
			out.WriteByte('\n')
			if onOutput != nil {
				onOutput(text)
			}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(errOut, "%s: reading output: %v\n", c.Name(), err)
				_, _ = io.Copy(io.Discard, stdout)
			}
			break
		}
	}

	err = cmd.Wait()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		errOut.WriteString(ctx.Err().Error() + "\n")
		return -1
	}
	msg := strings.TrimSpace(err.Error())
	errOut.WriteString(msg + "\n")
	return 1
}
