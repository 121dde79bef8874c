package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/filter"
	"github.com/five82/kiosk/internal/form"
)

// formField is one labelled input of a form modal. key matches the json name
// used by form.FieldErrors.
type formField struct {
	key   string
	label string
	input textinput.Model
}

func newFormField(key, label string, limit int, value string) formField {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = limit
	in.Width = 36
	in.SetValue(value)
	return formField{key: key, label: label, input: in}
}

// submitFunc validates the raw values. It returns either the mutation to run
// or the field errors to show.
type submitFunc func(values map[string]string) (tea.Cmd, form.FieldErrors)

// formModal edits one record. While the mutation is outstanding every key but
// ctrl+c is ignored.
type formModal struct {
	title      string
	fields     []formField
	focus      int
	errs       form.FieldErrors
	err        string
	submitting bool
	submit     submitFunc
}

func newFormModal(title string, fields []formField, submit submitFunc) *formModal {
	f := &formModal{title: title, fields: fields, submit: submit}
	f.focusField(0)
	return f
}

func (f *formModal) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	f.fields[i].input.CursorEnd()
	f.fields[i].input.Focus()
	return textinput.Blink
}

func (f *formModal) values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field.key] = field.input.Value()
	}
	return out
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case mutationDoneMsg:
		if !f.submitting {
			return f, nil, false
		}
		f.submitting = false
		if msg.err != nil {
			f.err = api.Message(msg.err)
			return f, nil, false
		}
		return f, nil, true

	case tea.KeyMsg:
		if f.submitting {
			return f, nil, false
		}
		switch {
		case key.Matches(msg, keys.Escape):
			return f, nil, true
		case key.Matches(msg, keys.Confirm):
			cmd, errs := f.submit(f.values())
			f.errs = errs
			f.err = ""
			if len(errs) > 0 {
				f.err = errs[""]
				for i, field := range f.fields {
					if _, bad := errs[field.key]; bad {
						return f, f.focusField(i), false
					}
				}
				return f, nil, false
			}
			f.submitting = true
			return f, cmd, false
		case key.Matches(msg, keys.NextField):
			return f, f.focusField((f.focus + 1) % len(f.fields)), false
		case key.Matches(msg, keys.PrevField):
			return f, f.focusField((f.focus + len(f.fields) - 1) % len(f.fields)), false
		}
	}

	if len(f.fields) == 0 || f.submitting {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(modalTitle(theme, f.title))

	for i, field := range f.fields {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText.Bold(true)
		}
		b.WriteString(label.Render(padRight(field.label, 12)))
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msg, bad := f.errs[field.key]; bad {
			b.WriteString(styles.DangerText.Render(strings.Repeat(" ", 12) + "↳ " + msg))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n\n")
	}
	if f.submitting {
		b.WriteString(styles.WarningText.Render(spinnerFrame(time.Now()) + " Saving..."))
	} else {
		b.WriteString(modalHints(theme, [2]string{"enter", "save"}, [2]string{"tab", "next field"}, [2]string{"esc", "cancel"}))
	}
	return renderModal(theme, b.String(), 60, width, height)
}

// venueForm creates a venue, or edits existing when it is non-nil.
func venueForm(ctx context.Context, b Backend, existing *api.Venue) *formModal {
	var name, city, address, contact string
	title := "New venue"
	if existing != nil {
		name, city, address, contact = existing.Name, existing.City, existing.Address, existing.Contact
		title = fmt.Sprintf("Edit venue #%d", existing.ID)
	}
	fields := []formField{
		newFormField("name", "Name", 64, name),
		newFormField("city", "City", 32, city),
		newFormField("address", "Address", 128, address),
		newFormField("contact", "Contact", 32, contact),
	}

	submit := func(v map[string]string) (tea.Cmd, form.FieldErrors) {
		in, errs := form.Validate(form.VenueInput{
			Name:    v["name"],
			City:    v["city"],
			Address: v["address"],
			Contact: v["contact"],
		})
		if errs != nil {
			return nil, errs
		}
		if existing == nil {
			return mutateCmd(ctx, ViewVenues, "Venue created", "Could not create venue", func(ctx context.Context) (string, error) {
				venue, err := b.CreateVenue(ctx, in)
				return venue.Name, err
			}), nil
		}
		id := existing.ID
		return mutateCmd(ctx, ViewVenues, "Venue updated", "Could not update venue", func(ctx context.Context) (string, error) {
			venue, err := b.UpdateVenue(ctx, id, in)
			return venue.Name, err
		}, ViewGroups, ViewDevices, ViewOrders), nil
	}
	return newFormModal(title, fields, submit)
}

// groupForm creates a device group. venueID prefills the venue field when
// positive.
func groupForm(ctx context.Context, b Backend, venueID int64) *formModal {
	venue := ""
	if venueID > 0 {
		venue = strconv.FormatInt(venueID, 10)
	}
	fields := []formField{
		newFormField("name", "Name", 32, ""),
		newFormField("venue_id", "Venue ID", 12, venue),
		newFormField("description", "Description", 128, ""),
	}

	submit := func(v map[string]string) (tea.Cmd, form.FieldErrors) {
		id, ok := filter.PositiveInt(v["venue_id"])
		in, errs := form.Validate(form.DeviceGroupInput{
			Name:        v["name"],
			VenueID:     id,
			Description: v["description"],
		})
		if !ok && strings.TrimSpace(v["venue_id"]) != "" {
			if errs == nil {
				errs = form.FieldErrors{}
			}
			errs["venue_id"] = "must be a positive number"
		}
		if errs != nil {
			return nil, errs
		}
		return mutateCmd(ctx, ViewGroups, "Device group created", "Could not create device group", func(ctx context.Context) (string, error) {
			group, err := b.CreateDeviceGroup(ctx, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s at %s", group.Name, orDash(group.VenueName)), nil
		}), nil
	}
	return newFormModal("New device group", fields, submit)
}
