package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on out and reads the answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads lines from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Credentials asks for email and password.
func (p *Prompter) Credentials() (email, password string, err error) {
	if email, err = p.Ask("Email: "); err != nil {
		return "", "", err
	}
	if password, err = p.Ask("Password: "); err != nil {
		return "", "", err
	}
	return email, password, nil
}

// Multiline reads lines until one consisting of a single "." and joins them.
func (p *Prompter) Multiline(label string) (string, error) {
	fmt.Fprintln(p.out, label+" (finish with a line containing only \".\")")
	var lines []string
	for p.scanner.Scan() {
		line := p.scanner.Text()
		if strings.TrimSpace(line) == "." {
			text := strings.TrimSpace(strings.Join(lines, "\n"))
			if text == "" {
				return "", errors.New("empty text")
			}
			return text, nil
		}
		lines = append(lines, line)
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
