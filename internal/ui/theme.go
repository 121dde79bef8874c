package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/api"
)

// palette is the raw color set a theme is derived from. Surfaces run from
// darkest (bg0) to lightest (bg4).
type palette struct {
	bg0, bg1, bg2, bg3, bg4 string
	sel, selText            string
	fg, comment, dim        string
	blue, cyan, green       string
	yellow, orange, red     string
}

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string // outside every panel
	Surface    string // header, command bar, list pages
	SurfaceAlt string // unfocused panels and toasts
	FocusBg    string // focused panel, monitor

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors is keyed by API order and device status.
	StatusColors map[string]string
}

// statusRoles picks the palette color for each API status. Devices and
// orders share "in_use".
var statusRoles = map[string]func(palette) string{
	api.OrderPending:   func(p palette) string { return p.comment },
	api.OrderPaid:      func(p palette) string { return p.cyan },
	api.OrderInUse:     func(p palette) string { return p.blue },
	api.OrderFinished:  func(p palette) string { return p.green },
	api.OrderRefunded:  func(p palette) string { return p.orange },
	api.OrderCancelled: func(p palette) string { return p.dim },
	api.DeviceOnline:   func(p palette) string { return p.green },
	api.DeviceOffline:  func(p palette) string { return p.comment },
	api.DeviceFault:    func(p palette) string { return p.red },
}

func fromPalette(name string, p palette) Theme {
	statuses := make(map[string]string, len(statusRoles))
	for status, role := range statusRoles {
		statuses[status] = role(p)
	}
	return Theme{
		Name:          name,
		Background:    p.bg0,
		Surface:       p.bg1,
		SurfaceAlt:    p.bg2,
		FocusBg:       p.bg3,
		SelectionBg:   p.sel,
		SelectionText: p.selText,
		Border:        p.bg4,
		BorderFocus:   p.blue,
		Text:          p.fg,
		Muted:         p.comment,
		Faint:         p.dim,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
		StatusColors:  statuses,
	}
}

// StatusColor returns the color for an order or device status, or the text
// color for unknown ones.
func (t Theme) StatusColor(status string) string {
	if color, ok := t.StatusColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return color
	}
	return t.Text
}

// Styles holds the lipgloss styles rendered by the views.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background:  lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:     fg(t.Text).Background(lipgloss.Color(t.Surface)),
		SurfaceAlt:  fg(t.Text).Background(lipgloss.Color(t.SurfaceAlt)),
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:        fg(t.Warning).Bold(true),
	}
}

// WithBackground returns a copy of s where every style paints bgColor, so
// styled runs never fall through to the terminal's own background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Background, &s.Surface, &s.SurfaceAlt,
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": fromPalette("Nightfox", palette{
		bg0: "#131a24", bg1: "#192330", bg2: "#212e3f", bg3: "#29394f", bg4: "#39506d",
		sel: "#2b3b51", selText: "#cdcecf",
		fg: "#cdcecf", comment: "#738091", dim: "#71839b",
		blue: "#719cd6", cyan: "#63cdcf", green: "#81b29a",
		yellow: "#dbc074", orange: "#f4a261", red: "#c94f6d",
	}),
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": fromPalette("Kanagawa", palette{
		bg0: "#16161D", bg1: "#1F1F28", bg2: "#2A2A37", bg3: "#2A2A37", bg4: "#54546D",
		sel: "#2D4F67", selText: "#DCD7BA",
		fg: "#DCD7BA", comment: "#C8C093", dim: "#727169",
		blue: "#7E9CD8", cyan: "#7FB4CA", green: "#98BB6C",
		yellow: "#E6C384", orange: "#FFA066", red: "#E46876",
	}),
	// Tailwind slate and sky
	"Slate": fromPalette("Slate", palette{
		bg0: "#020617", bg1: "#0f172a", bg2: "#1e293b", bg3: "#283548", bg4: "#334155",
		sel: "#0284c7", selText: "#f8fafc",
		fg: "#f1f5f9", comment: "#94a3b8", dim: "#64748b",
		blue: "#38bdf8", cyan: "#06b6d4", green: "#22c55e",
		yellow: "#f59e0b", orange: "#fb923c", red: "#ef4444",
	}),
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}
