package logtail

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestRender(t *testing.T) {
	lines := []string{
		`{"level":"info","component":"ui","time":"2026-10-17T09:00:00Z","message":"kiosk starting"}`,
		`{"level":"debug","time":"2026-10-17T09:00:01Z","message":"dropped stale result"}`,
		"",
		"plain text line",
		`{"level":"warn","view":"orders","time":"2026-10-17T09:00:02Z","message":"list fetch failed"}`,
	}

	var buf bytes.Buffer
	if err := Render(&buf, lines, Options{NoColor: true, MinLevel: zerolog.InfoLevel}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"kiosk starting", "component=ui", "plain text line", "list fetch failed", "view=orders"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dropped stale result") {
		t.Errorf("Render() kept a debug line below MinLevel:\n%s", out)
	}
	if strings.Contains(out, `"message"`) {
		t.Errorf("Render() left raw JSON in output:\n%s", out)
	}
}

func TestKeep(t *testing.T) {
	tests := []struct {
		line string
		min  zerolog.Level
		want bool
	}{
		{`{"level":"debug"}`, zerolog.DebugLevel, true},
		{`{"level":"debug"}`, zerolog.InfoLevel, false},
		{`{"level":"error"}`, zerolog.WarnLevel, true},
		{`{"message":"no level"}`, zerolog.ErrorLevel, true},
		{`{"level":"bogus"}`, zerolog.ErrorLevel, true},
	}
	for _, tt := range tests {
		if got := keep(tt.line, tt.min); got != tt.want {
			t.Errorf("keep(%s, %v) = %v, want %v", tt.line, tt.min, got, tt.want)
		}
	}
}
