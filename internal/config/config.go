package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console's runtime settings.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	PageSize       int
	PollInterval   time.Duration
	ToastDuration  time.Duration
	ToastLimit     int
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath = "~/.config/kiosk/config.toml"
	maxPageSize       = 100
)

// fileConfig mirrors config.toml. Durations stay strings so "5s" style values
// parse with time.ParseDuration.
type fileConfig struct {
	APIBaseURL     string `toml:"api_base_url" default:"127.0.0.1:8080"`
	RequestTimeout string `toml:"request_timeout" default:"10s"`
	PageSize       int    `toml:"page_size" default:"20"`
	PollInterval   string `toml:"poll_interval" default:"5s"`
	ToastDuration  string `toml:"toast_duration" default:"4s"`
	ToastLimit     int    `toml:"toast_limit" default:"5"`
	LogFile        string `toml:"log_file" default:"~/.local/state/kiosk/kiosk.log"`
	LogLevel       string `toml:"log_level" default:"info"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var raw fileConfig
	_ = defaults.Set(&raw)
	cfg, _ := raw.resolve()
	return cfg
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing or a value is blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	raw.trim()
	if err := defaults.Set(&raw); err != nil {
		return Config{}, fmt.Errorf("apply config defaults: %w", err)
	}

	cfg, err := raw.resolve()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (f *fileConfig) trim() {
	f.APIBaseURL = strings.TrimSpace(f.APIBaseURL)
	f.RequestTimeout = strings.TrimSpace(f.RequestTimeout)
	f.PollInterval = strings.TrimSpace(f.PollInterval)
	f.ToastDuration = strings.TrimSpace(f.ToastDuration)
	f.LogFile = strings.TrimSpace(f.LogFile)
	f.LogLevel = strings.ToLower(strings.TrimSpace(f.LogLevel))
	if f.PageSize < 0 {
		f.PageSize = 0
	}
	if f.ToastLimit < 0 {
		f.ToastLimit = 0
	}
}

func (f fileConfig) resolve() (Config, error) {
	cfg := Config{
		APIBaseURL: f.APIBaseURL,
		PageSize:   min(f.PageSize, maxPageSize),
		ToastLimit: f.ToastLimit,
		LogFile:    mustExpand(f.LogFile),
		LogLevel:   f.LogLevel,
	}
	var err error
	if cfg.RequestTimeout, err = parseDuration("request_timeout", f.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", f.PollInterval); err != nil {
		return Config{}, err
	}
	if cfg.ToastDuration, err = parseDuration("toast_duration", f.ToastDuration); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
