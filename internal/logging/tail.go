package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded record from the JSON log file.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	// Attrs holds the remaining fields rendered as key=value, sorted by key.
	Attrs []string
	// Raw is set when the line was not valid JSON.
	Raw string
}

// Tail returns at most maxLines lines from the end of the file at path. A
// missing file yields no lines.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[next] = line
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return append([]string(nil), ring[:count]...), nil
	}
	lines := make([]string, count)
	for i := range lines {
		lines[i] = ring[(next+i)%maxLines]
	}
	return lines, nil
}

// Recent decodes the last maxLines records of the log at path, oldest first.
func Recent(path string, maxLines int) ([]Entry, error) {
	lines, err := Tail(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, ParseEntry(line))
	}
	return entries, nil
}

// ParseEntry decodes a single slog JSON line. The app attribute is dropped
// since every record carries it.
func ParseEntry(line string) Entry {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{Raw: line}
	}

	var e Entry
	if ts, ok := fields[slog.TimeKey].(string); ok {
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	e.Level, _ = fields[slog.LevelKey].(string)
	e.Message, _ = fields[slog.MessageKey].(string)
	for _, k := range []string{slog.TimeKey, slog.LevelKey, slog.MessageKey, "app"} {
		delete(fields, k)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Attrs = append(e.Attrs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return e
}
