package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/filter"
)

// fieldKind selects how a filter field's raw text is normalized.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldID
	fieldEnum
	fieldTime
	fieldDate
)

// filterField is one editable input of a list view's filter bar.
type filterField struct {
	key     string
	label   string
	kind    fieldKind
	options []string
	input   textinput.Model
}

func newFilterField(key, label string, kind fieldKind, options ...string) filterField {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 64
	in.Width = 12
	switch kind {
	case fieldID:
		in.Placeholder = "id"
		in.Width = 8
	case fieldEnum:
		in.Placeholder = strings.Join(options, "|")
		in.Width = min(len(in.Placeholder), 20)
	case fieldTime:
		in.Placeholder = "yyyy-mm-dd hh:mm"
		in.Width = 16
	case fieldDate:
		in.Placeholder = "yyyy-mm-dd"
		in.Width = 10
	default:
		in.Placeholder = "any"
	}
	return filterField{key: key, label: label, kind: kind, options: options, input: in}
}

// valid reports whether the field is blank or normalizes to a value. Invalid
// input is treated as absent.
func (f filterField) valid() bool {
	raw := f.input.Value()
	if strings.TrimSpace(raw) == "" {
		return true
	}
	var ok bool
	switch f.kind {
	case fieldID:
		_, ok = filter.PositiveInt(raw)
	case fieldEnum:
		_, ok = filter.Enum(raw, f.options...)
	case fieldTime, fieldDate:
		_, ok = filter.Time(raw, time.Local)
	default:
		ok = true
	}
	return ok
}

// filterValues holds raw field text keyed by field key.
type filterValues map[string]string

func valuesOf(fields []filterField) filterValues {
	out := make(filterValues, len(fields))
	for _, f := range fields {
		out[f.key] = f.input.Value()
	}
	return out
}

func (v filterValues) text(key string) string {
	s, _ := filter.Text(v[key])
	return s
}

func (v filterValues) id(key string) int64 {
	n, _ := filter.PositiveInt(v[key])
	return n
}

func (v filterValues) enum(key string, allowed ...string) string {
	s, _ := filter.Enum(v[key], allowed...)
	return s
}

func (v filterValues) at(key string) time.Time {
	t, _ := filter.Time(v[key], time.Local)
	return t
}

// renderFilterBar renders the filter fields on one line. focus is the index of
// the field being edited, or -1.
func renderFilterBar(theme Theme, fields []filterField, focus, width int) string {
	if len(fields) == 0 {
		return ""
	}
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)

	parts := make([]string, 0, len(fields)+1)
	if focus < 0 {
		parts = append(parts, bg.Render("Filters", styles.MutedText.Bold(true)))
	} else {
		parts = append(parts, bg.Render("Filters", styles.AccentText.Bold(true)))
	}
	for i, f := range fields {
		labelStyle := styles.MutedText
		valueStyle := styles.Text
		switch {
		case i == focus:
			labelStyle = styles.AccentText.Bold(true)
		case !f.valid():
			labelStyle = styles.WarningText
			valueStyle = styles.WarningText.Strikethrough(true)
		}

		var value string
		if i == focus {
			value = f.input.View()
		} else {
			raw := strings.TrimSpace(f.input.Value())
			if raw == "" {
				value = bg.Render("any", styles.FaintText)
			} else {
				value = bg.Render(truncate(raw, 20), valueStyle)
			}
		}
		parts = append(parts, bg.Render(f.label+":", labelStyle)+bg.Space()+value)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Surface)).
		Width(width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}
