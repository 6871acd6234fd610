package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPrompter asks for route input on the controlling terminal
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // stdin descriptor for hidden input
}

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

// Input reads one line. An empty answer keeps def.
func (p *terminalPrompter) Input(title, def string, hidden bool) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", title, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", title)
	}

	var line string
	if hidden && term.IsTerminal(p.fd) {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		line = string(b)
	} else {
		s, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || s == "") {
			if err == io.EOF {
				return "", nil
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		line = s
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question; anything but y/yes is no
func (p *terminalPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	s, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
