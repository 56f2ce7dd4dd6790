// Package console is the interactive input/output used while acquiring
// packages: progress lines, verbose tool output and credential prompts.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/drupalprojects/composer/pkg/errors"
)

// IO is the user-facing channel of an acquisition run.
type IO interface {
	// IsInteractive reports whether questions can be asked.
	IsInteractive() bool
	// IsVerbose reports whether tool output should be shown.
	IsVerbose() bool
	// Write prints one message followed by a newline.
	Write(msg string)
	// Ask prompts for a line of input.
	Ask(question string) (string, error)
	// AskHidden prompts for a line of input without echoing it.
	AskHidden(question string) (string, error)
}

// Options configures a terminal console.
type Options struct {
	Verbose bool
	// NoInteraction disables prompts even when stdin is a terminal.
	NoInteraction bool
}

// Terminal is an IO over a pair of file streams.
type Terminal struct {
	in          *os.File
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	verbose     bool
	prompt      lipgloss.Style

	mu sync.Mutex
}

var _ IO = (*Terminal)(nil)

// New creates a console reading from in and writing to out. Prompts are only
// possible when in is a terminal.
func New(in *os.File, out io.Writer, opts Options) *Terminal {
	interactive := !opts.NoInteraction && in != nil && term.IsTerminal(int(in.Fd()))
	var reader *bufio.Reader
	if in != nil {
		reader = bufio.NewReader(in)
	}
	return &Terminal{
		in:          in,
		reader:      reader,
		out:         out,
		interactive: interactive,
		verbose:     opts.Verbose,
		prompt:      lipgloss.NewRenderer(out).NewStyle().Bold(true),
	}
}

func (c *Terminal) IsInteractive() bool { return c.interactive }
func (c *Terminal) IsVerbose() bool     { return c.verbose }

func (c *Terminal) Write(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

func (c *Terminal) Ask(question string) (string, error) {
	if err := c.canAsk(question); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, c.prompt.Render(question))
	line, err := c.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "could not read answer")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Terminal) AskHidden(question string) (string, error) {
	if err := c.canAsk(question); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, c.prompt.Render(question))
	secret, err := term.ReadPassword(int(c.in.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "could not read hidden answer")
	}
	return string(secret), nil
}

func (c *Terminal) canAsk(question string) error {
	if !c.interactive {
		return errors.New(errors.ErrCodeInvalidInput, "cannot ask %q in non-interactive mode", strings.TrimSpace(question))
	}
	return nil
}

type null struct{}

// Null returns an IO that discards output and cannot ask questions.
func Null() IO { return null{} }

func (null) IsInteractive() bool { return false }
func (null) IsVerbose() bool     { return false }
func (null) Write(string)        {}
func (null) Ask(q string) (string, error) {
	return "", errors.New(errors.ErrCodeInvalidInput, "cannot ask %q in non-interactive mode", strings.TrimSpace(q))
}
func (n null) AskHidden(q string) (string, error) { return n.Ask(q) }
