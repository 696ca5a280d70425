package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// terminalPrompter implements reconcile.Prompter over stdin/stderr.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}
}

func (p *terminalPrompter) Token() (string, error) {
	fmt.Fprint(p.out, "API token: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no token given")
	}
	return token, nil
}

func (p *terminalPrompter) Confirm(summary string) (bool, error) {
	fmt.Fprint(p.out, summary)
	fmt.Fprint(p.out, "Apply these changes? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
