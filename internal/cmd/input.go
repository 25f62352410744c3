package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readInputSource reads a whole input: a file path, or stdin when source is
// "-". The result is whitespace-trimmed.
func readInputSource(source string, stdin io.Reader) (string, error) {
	source = strings.TrimSpace(source)
	switch source {
	case "":
		return "", fmt.Errorf("empty input source")
	case "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return strings.TrimSpace(string(data)), nil
}
