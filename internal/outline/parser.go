package outline

import (
	"bufio"
	"errors"
	"strings"
)

// ErrEmptyOutline indicates the outline text produced no entries at all.
var ErrEmptyOutline = errors.New("no outline entries found (expected markdown headers: # Title, ## Title, ...)")

// maxLevel is the deepest header depth recognized, matching h1-h6.
const maxLevel = 6

// Entry is one recognized header line: its depth and display title.
type Entry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// ParseEntries scans outline text line by line and returns one Entry per
// header line, in file order. A header line is 1-6 leading '#' characters,
// optional whitespace, then a non-empty title; the space separator is
// optional, so "#Title" counts. Lines with more than 6 '#', blank lines,
// and anything else are ignored.
func ParseEntries(text string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] != '#' {
			continue
		}

		level := 0
		for level < len(line) && line[level] == '#' {
			level++
		}
		if level > maxLevel {
			continue
		}

		title := strings.TrimSpace(line[level:])
		if title == "" {
			continue
		}
		entries = append(entries, Entry{Level: level, Title: title})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrEmptyOutline
	}
	return entries, nil
}
