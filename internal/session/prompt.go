package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter is the text I/O surface the session talks through.
type Prompter interface {
	// ReadLine prints prompt and returns one line of input without the line ending.
	ReadLine(prompt string) (string, error)
	// ReadPassword is ReadLine without echoing the input where possible.
	ReadPassword(prompt string) (string, error)
}

// LinePrompter reads plain lines from a reader. Passwords are read like any other line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a Prompter reading from r and printing prompts to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

func (p *LinePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) ReadPassword(prompt string) (string, error) {
	return p.ReadLine(prompt)
}

// TerminalPrompter masks password input when stdin is a terminal.
type TerminalPrompter struct {
	*LinePrompter
	fd     int
	isTerm bool
}

// NewTerminalPrompter returns a Prompter over f, typically os.Stdin.
func NewTerminalPrompter(f *os.File, w io.Writer) *TerminalPrompter {
	fd := int(f.Fd())
	return &TerminalPrompter{
		LinePrompter: NewLinePrompter(f, w),
		fd:           fd,
		isTerm:       term.IsTerminal(fd),
	}
}

func (p *TerminalPrompter) ReadPassword(prompt string) (string, error) {
	if !p.isTerm {
		return p.LinePrompter.ReadLine(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
