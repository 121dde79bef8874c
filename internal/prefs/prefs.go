// Package prefs persists the operator's console preferences in
// ~/.config/kiosk/prefs.toml. Unlike config.toml the console writes this file
// itself whenever the theme, page size or current view changes.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/kiosk/internal/config"
)

// Prefs holds the preferences changed from inside the console.
type Prefs struct {
	Theme string `toml:"theme"`
	// PageSize overrides the configured page size when positive.
	PageSize int `toml:"page_size,omitempty"`
	// LastView is the list the console opens on.
	LastView string `toml:"last_view,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/kiosk/prefs.toml"
	defaultTheme     = "Nightfox"
	maxPageSize      = 100
)

// Normalize fills blank or out-of-range values with defaults.
func (p Prefs) Normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if p.PageSize < 0 || p.PageSize > maxPageSize {
		p.PageSize = 0
	}
	p.LastView = strings.TrimSpace(p.LastView)
	return p
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path (or the default location). A missing,
// unreadable or malformed file yields defaults; prefs never stop the console
// from starting.
func Load(path string) (Prefs, error) {
	defaults := Prefs{}.Normalize()

	resolved, err := resolvePath(path)
	if err != nil {
		return defaults, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return defaults, nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return defaults, nil
	}
	return p.Normalize(), nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.Normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
