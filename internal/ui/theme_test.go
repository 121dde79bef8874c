package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Nightfox", got)
	}
}

func TestStatusColor(t *testing.T) {
	th := GetTheme("Nightfox")

	if got := th.StatusColors["fault"]; got != th.Danger {
		t.Fatalf("fault color = %q, want danger %q", got, th.Danger)
	}
	for _, status := range []string{"pending", "paid", "in_use", "finished", "refunded", "cancelled", "online", "offline", "fault"} {
		if _, ok := th.StatusColors[status]; !ok {
			t.Fatalf("StatusColors missing %q", status)
		}
	}
	if got := th.StatusColor("  Fault "); got != th.StatusColors["fault"] {
		t.Fatalf("StatusColor = %q, want %q", got, th.StatusColors["fault"])
	}
	if got := th.StatusColor("unknown"); got != th.Text {
		t.Fatalf("StatusColor unknown = %q, want %q", got, th.Text)
	}
}

func TestWithBackgroundKeepsColors(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles().WithBackground(th.Surface)

	if got := styles.MutedText.GetForeground(); got != th.Styles().MutedText.GetForeground() {
		t.Fatalf("MutedText foreground = %v, want %v", got, th.Styles().MutedText.GetForeground())
	}
	if got := styles.DangerText.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("DangerText background = %v, want %v", got, th.Surface)
	}
	if !styles.DangerText.GetBold() {
		t.Fatalf("DangerText lost bold after WithBackground")
	}
}
