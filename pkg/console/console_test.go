package console

import (
	"bytes"
	"os"
	"testing"

	"github.com/drupalprojects/composer/pkg/errors"
)

func TestTerminalNonInteractive(t *testing.T) {
	in, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	var out bytes.Buffer
	c := New(in, &out, Options{Verbose: true})

	if c.IsInteractive() {
		t.Error("IsInteractive() = true for a regular file")
	}
	if !c.IsVerbose() {
		t.Error("IsVerbose() = false, want true")
	}

	c.Write("  - Installing acme/foo (1.0.0)")
	if out.String() != "  - Installing acme/foo (1.0.0)\n" {
		t.Errorf("Write() output = %q", out.String())
	}

	if _, err := c.Ask("Username: "); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Ask() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := c.AskHidden("Password: "); err == nil {
		t.Error("AskHidden() should fail in non-interactive mode")
	}
}

func TestTerminalNilInput(t *testing.T) {
	var out bytes.Buffer
	c := New(nil, &out, Options{NoInteraction: true})
	if c.IsInteractive() {
		t.Error("IsInteractive() = true without input")
	}
}

func TestNull(t *testing.T) {
	n := Null()
	n.Write("ignored")
	if n.IsInteractive() || n.IsVerbose() {
		t.Error("Null() should be neither interactive nor verbose")
	}
	if _, err := n.AskHidden("Password: "); err == nil {
		t.Error("Null().AskHidden() should fail")
	}
}

func TestBuffer(t *testing.T) {
	b := NewBuffer("alice", "s3cret")

	user, err := b.Ask("Username: ")
	if err != nil || user != "alice" {
		t.Fatalf("Ask() = %q, %v", user, err)
	}
	pass, err := b.AskHidden("Password: ")
	if err != nil || pass != "s3cret" {
		t.Fatalf("AskHidden() = %q, %v", pass, err)
	}
	if _, err := b.Ask("Username: "); err == nil {
		t.Error("Ask() with no answers left should fail")
	}

	b.Write("one")
	b.Write("two")
	if b.Output() != "one\ntwo" {
		t.Errorf("Output() = %q", b.Output())
	}
	if got := b.Prompts(); len(got) != 3 || got[1] != "Password: " {
		t.Errorf("Prompts() = %q", got)
	}

	b.Interactive = false
	if _, err := b.Ask("Username: "); err == nil {
		t.Error("Ask() on non-interactive buffer should fail")
	}
}
