package internal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptSecret reads a line from the terminal with echo disabled. When stdin
// is not a terminal (piped input, tests), it falls back to a plain line read.
func PromptSecret(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read secret input: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && len(line) == 0 {
		return "", fmt.Errorf("failed to read secret input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
