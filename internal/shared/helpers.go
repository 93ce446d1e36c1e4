// Package shared provides common utility functions used across multiple
// packages in the resym codebase.
package shared

import (
	"bufio"
	"os"
	"strings"
)

// NormalizeName maps a resource name to the identifier form used in symbol
// tables: every character outside [A-Za-z0-9_] becomes an underscore.
func NormalizeName(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '_':
			return r
		}
		return '_'
	}, value)
}

// ReadFirstLine returns the first line of the file at path, without the
// trailing newline. An empty file yields an empty string.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	return "", scanner.Err()
}
