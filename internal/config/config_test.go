package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "127.0.0.1:8080" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "127.0.0.1:8080")
	}
	if cfg.PageSize != 20 || cfg.ToastLimit != 5 {
		t.Fatalf("PageSize/ToastLimit = %d/%d, want 20/5", cfg.PageSize, cfg.ToastLimit)
	}
	if cfg.PollInterval != 5*time.Second || cfg.RequestTimeout != 10*time.Second || cfg.ToastDuration != 4*time.Second {
		t.Fatalf("durations = %v/%v/%v, want 5s/10s/4s", cfg.PollInterval, cfg.RequestTimeout, cfg.ToastDuration)
	}
	want := filepath.Join(home, ".local/state/kiosk/kiosk.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base_url = "  https://admin.example.com  "
request_timeout = " 3s "
page_size = 50
poll_interval = "15s"
toast_duration = "2500ms"
toast_limit = 3
log_file = "  ~/logs/kiosk.log  "
log_level = " DEBUG "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://admin.example.com" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "https://admin.example.com")
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.PageSize != 50 || cfg.ToastLimit != 3 {
		t.Fatalf("PageSize/ToastLimit = %d/%d, want 50/3", cfg.PageSize, cfg.ToastLimit)
	}
	if cfg.ToastDuration != 2500*time.Millisecond {
		t.Fatalf("ToastDuration = %v, want 2.5s", cfg.ToastDuration)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_base_url = "   "
poll_interval = ""
page_size = -4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.APIBaseURL != def.APIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, def.APIBaseURL)
	}
	if cfg.PollInterval != def.PollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, def.PollInterval)
	}
	if cfg.PageSize != def.PageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, def.PageSize)
	}
}

func TestLoad_CapsPageSize(t *testing.T) {
	cfg, err := Load(writeConfig(t, "page_size = 5000\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != maxPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, maxPageSize)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_base_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	for _, body := range []string{`poll_interval = "soon"`, `request_timeout = "-1s"`} {
		_, err := Load(writeConfig(t, body))
		if err == nil {
			t.Fatalf("Load(%q) returned nil error, want duration error", body)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
