package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptConfirmer asks on out and reads a y/N answer from in.
// When in is not a terminal and interactive is false, every prompt is declined.
type PromptConfirmer struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPromptConfirmer creates a confirmer reading from stdin and prompting on stderr.
func NewPromptConfirmer() *PromptConfirmer {
	return &PromptConfirmer{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// newPromptConfirmerFrom creates a confirmer over arbitrary streams that always asks.
func newPromptConfirmerFrom(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out, interactive: true}
}

func (c *PromptConfirmer) Confirm(prompt string) bool {
	if !c.interactive {
		fmt.Fprintf(c.out, "%s [y/N] no (not a terminal, use --force)\n", prompt)
		return false
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
