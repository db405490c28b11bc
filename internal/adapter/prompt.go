package adapter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt reads answers from a terminal. Secrets are read without echo when
// the input is a TTY.
type Prompt struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

// NewPrompt creates a prompt on stdin/stdout
func NewPrompt() *Prompt {
	fd := int(os.Stdin.Fd())
	return &Prompt{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     fd,
		isTerm: term.IsTerminal(fd),
	}
}

// newPromptFrom creates a prompt over arbitrary streams, never a TTY
func newPromptFrom(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out, fd: -1}
}

// Ask prints label and returns the trimmed line
func (p *Prompt) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AskRequired repeats the question until a non-empty answer is given
func (p *Prompt) AskRequired(label string) (string, error) {
	for {
		answer, err := p.Ask(label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required. Please try again.")
	}
}

// Secret reads a line with echo disabled
func (p *Prompt) Secret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.isTerm {
		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// Credentials asks for an email and password
func (p *Prompt) Credentials() (identifier, secret string, err error) {
	identifier, err = p.AskRequired("Email: ")
	if err != nil {
		return "", "", err
	}
	secret, err = p.Secret("Password: ")
	if err != nil {
		return "", "", err
	}
	return identifier, secret, nil
}
