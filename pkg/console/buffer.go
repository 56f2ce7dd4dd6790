package console

import (
	"strings"
	"sync"

	"github.com/drupalprojects/composer/pkg/errors"
)

// Buffer is an in-memory IO with scripted answers, for tests and for
// embedding the downloaders without a terminal.
type Buffer struct {
	Interactive bool
	Verbose     bool

	mu      sync.Mutex
	answers []string
	lines   []string
	prompts []string
}

var _ IO = (*Buffer)(nil)

// NewBuffer creates an interactive buffer that answers prompts from answers
// in order.
func NewBuffer(answers ...string) *Buffer {
	return &Buffer{Interactive: true, answers: answers}
}

func (b *Buffer) IsInteractive() bool { return b.Interactive }
func (b *Buffer) IsVerbose() bool     { return b.Verbose }

func (b *Buffer) Write(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, msg)
}

func (b *Buffer) Ask(question string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompts = append(b.prompts, question)
	if !b.Interactive {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot ask %q in non-interactive mode", strings.TrimSpace(question))
	}
	if len(b.answers) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no answer left for %q", strings.TrimSpace(question))
	}
	answer := b.answers[0]
	b.answers = b.answers[1:]
	return answer, nil
}

func (b *Buffer) AskHidden(question string) (string, error) { return b.Ask(question) }

// Lines returns every written message.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Output returns every written message joined with newlines.
func (b *Buffer) Output() string {
	return strings.Join(b.Lines(), "\n")
}

// Prompts returns every question asked, in order.
func (b *Buffer) Prompts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.prompts...)
}
