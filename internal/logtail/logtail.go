package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Options control how Render prints lines.
type Options struct {
	NoColor bool
	// MinLevel drops JSON lines below this level. Lines that are not JSON
	// are always printed.
	MinLevel zerolog.Level
}

// Render writes lines to w. JSON log events are reformatted through
// zerolog's console writer; anything else is copied verbatim.
func Render(w io.Writer, lines []string, opts Options) error {
	console := zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, TimeFormat: "2006-01-02 15:04:05"}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "{") {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			continue
		}
		if !keep(trimmed, opts.MinLevel) {
			continue
		}
		if _, err := console.Write([]byte(trimmed)); err != nil {
			// Malformed JSON stays readable as-is.
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// keep reports whether a JSON line's level is at least min.
func keep(line string, min zerolog.Level) bool {
	if min <= zerolog.DebugLevel {
		return true
	}
	const marker = `"level":"`
	i := strings.Index(line, marker)
	if i < 0 {
		return true
	}
	rest := line[i+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return true
	}
	lvl, err := zerolog.ParseLevel(rest[:end])
	if err != nil {
		return true
	}
	return lvl >= min
}
