package driver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/logger"
	"github.com/pfrederiksen/invitegen/internal/mapper"
)

// apply performs one action according to its control type. A validated event
// never yields an unknown control; hitting one means the mapper and driver
// disagree, which is an internal contract violation and fatal to the action.
func (d *Driver) apply(action mapper.Action) error {
	spec := d.forms.Field(action.Field)

	switch action.Control {
	case mapper.ControlText:
		if action.Field == mapper.FieldTitle {
			return d.applyTitle(action.Value, spec.Inputs)
		}
		return d.applyText(action.Value, spec.Trigger, spec.Inputs)
	case mapper.ControlDate:
		return d.applyDate(action)
	case mapper.ControlTime:
		return d.applyTime(action)
	case mapper.ControlAutocomplete:
		return d.applyLocation(action.Value, spec.Trigger, spec.Inputs)
	case mapper.ControlFile:
		return d.applyFile(action.Value, spec.Trigger)
	default:
		return fmt.Errorf("internal: no handler for control type %q", action.Control)
	}
}

// applyTitle replaces the pre-filled placeholder in the editable heading.
func (d *Driver) applyTitle(value string, inputs []string) error {
	var lastErr error
	for _, sel := range inputs {
		if err := d.page.Click(sel, d.cfg.ActionTimeout); err != nil {
			lastErr = err
			continue
		}
		// The heading arrives with its placeholder text selected.
		_ = d.page.Press("Delete")
		if err := d.page.TypeText(value); err != nil {
			return fmt.Errorf("typing title: %w", err)
		}
		return nil
	}
	return fmt.Errorf("no title control responded: %w", lastErr)
}

// applyText reveals a text field through its trigger and fills it.
func (d *Driver) applyText(value, trigger string, inputs []string) error {
	d.closePicker()
	if trigger != "" {
		if err := d.clickText(trigger); err != nil {
			return fmt.Errorf("opening field: %w", err)
		}
	}
	for _, sel := range inputs {
		if err := d.page.Fill(sel, value, d.cfg.ActionTimeout); err == nil {
			return nil
		}
	}
	// The revealed control may simply hold focus.
	if err := d.page.TypeText(value); err != nil {
		return fmt.Errorf("typing into focused control: %w", err)
	}
	return nil
}

// applyDate steers the calendar widget to the action's date, falling back to
// typing the literal date when the widget will not cooperate. The end-date
// row only exists once the end section is enabled; selecting a day before
// that would re-set the start date instead.
func (d *Driver) applyDate(action mapper.Action) error {
	if err := d.openPicker(); err != nil {
		return err
	}
	if action.Field == mapper.FieldEndDate {
		if err := d.enableEndSection(); err != nil {
			return err
		}
	}
	if err := d.selectCalendarDay(action.When); err != nil {
		d.log.Warn("calendar selection failed, typing literal date", logger.Fields{
			"field": string(action.Field),
			"error": err.Error(),
		})
		return d.typeFallback(action.Value)
	}
	return nil
}

// applyTime clicks the matching slot in the open time picker. The end-time
// section must be enabled once before its slots exist.
func (d *Driver) applyTime(action mapper.Action) error {
	if err := d.openPicker(); err != nil {
		return err
	}
	if action.Field == mapper.FieldEndTime {
		if err := d.enableEndSection(); err != nil {
			return err
		}
	}
	if err := d.page.ClickWithText(d.forms.Widgets.TimeSlot, action.Value, d.cfg.ActionTimeout); err != nil {
		d.log.Warn("time slot not found, typing literal time", logger.Fields{
			"field": string(action.Field),
			"error": err.Error(),
		})
		return d.typeFallback(action.Value)
	}
	return nil
}

// applyLocation fills the autocomplete modal, prefers a structured
// suggestion, tolerates zero matches by keeping the literal text, and saves.
func (d *Driver) applyLocation(value, trigger string, inputs []string) error {
	d.closePicker()
	if trigger != "" {
		if err := d.clickText(trigger); err != nil {
			return fmt.Errorf("opening location modal: %w", err)
		}
	}

	filled := false
	for _, sel := range inputs {
		if err := d.page.Fill(sel, value, d.cfg.ActionTimeout); err == nil {
			filled = true
			break
		}
	}
	if !filled {
		return fmt.Errorf("no location input accepted the value")
	}

	// Structured selection when suggestions appear; the typed text stands
	// otherwise.
	sug := d.forms.Widgets.Suggestion
	if err := d.page.WaitVisible(sug, d.cfg.ActionTimeout); err == nil {
		if err := d.page.ClickFirst(sug, d.cfg.ActionTimeout); err != nil {
			d.log.Warn("suggestion click failed, keeping typed location", logger.Fields{"error": err.Error()})
		}
	}

	return d.saveDialog()
}

// saveDialog persists a modal's content and waits for it to close.
func (d *Driver) saveDialog() error {
	dialog := d.forms.Widgets.Dialog
	if err := d.page.ClickWithText(d.forms.Widgets.SaveButton, d.forms.Widgets.SaveText, d.cfg.ActionTimeout); err != nil {
		_ = d.page.Press("Enter")
	}
	if err := d.page.WaitGone(dialog, d.cfg.ActionTimeout); err != nil {
		_ = d.page.Press("Escape")
		if err := d.page.WaitGone(dialog, d.cfg.ActionTimeout); err != nil {
			return fmt.Errorf("dialog did not close after save: %w", err)
		}
	}
	return nil
}

// applyFile reveals the upload control and hands it the local file.
func (d *Driver) applyFile(path, trigger string) error {
	d.closePicker()
	if trigger != "" {
		// The file input often exists without the trigger; ignore a miss.
		_ = d.clickText(trigger)
	}
	if err := d.page.SetFiles(d.forms.Widgets.FileInput, path, d.cfg.ActionTimeout); err != nil {
		return fmt.Errorf("setting upload file: %w", err)
	}
	return nil
}

// enableEndSection clicks the "End" toggle once per run, revealing the
// end-date row and end-time slots.
func (d *Driver) enableEndSection() error {
	if d.endEnabled {
		return nil
	}
	if err := d.clickText(d.forms.Widgets.EndToggle); err != nil {
		return fmt.Errorf("enabling end section: %w", err)
	}
	d.endEnabled = true
	return nil
}

// openPicker reveals the date/time picker once per fill pass.
func (d *Driver) openPicker() error {
	if d.pickerOpen {
		return nil
	}
	trigger := d.forms.Field(mapper.FieldStartDate).Trigger
	if trigger == "" {
		return fmt.Errorf("no date trigger configured")
	}
	if err := d.clickText(trigger); err != nil {
		return fmt.Errorf("opening date picker: %w", err)
	}
	d.pickerOpen = true
	return nil
}

// selectCalendarDay pages the calendar forward to the target month and
// clicks the day cell. Backward navigation is refused; extraction never
// produces past dates.
func (d *Driver) selectCalendarDay(target time.Time) error {
	w := d.forms.Widgets
	targetMonth := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, time.UTC)

	for hops := 0; hops < 12; hops++ {
		header, err := d.page.Text(w.MonthHeader, d.cfg.ActionTimeout)
		if err != nil {
			return fmt.Errorf("reading calendar header: %w", err)
		}
		shown, err := time.Parse("January 2006", strings.TrimSpace(header))
		if err != nil {
			return fmt.Errorf("parsing calendar header %q: %w", header, err)
		}

		switch {
		case shown.Equal(targetMonth):
			// Exact text only: a substring match for day "1" would hit an
			// outside day like "31" rendered before it in the grid.
			return d.page.ClickExact(w.DayCell, strconv.Itoa(target.Day()), d.cfg.ActionTimeout)
		case shown.Before(targetMonth):
			if err := d.page.Click(w.NextMonth, d.cfg.ActionTimeout); err != nil {
				return fmt.Errorf("advancing calendar: %w", err)
			}
		default:
			return fmt.Errorf("calendar shows %s, after target %s", header, target.Format("January 2006"))
		}
	}
	return fmt.Errorf("calendar did not reach %s within 12 months", target.Format("January 2006"))
}

// typeFallback replaces the focused control's content with literal text.
func (d *Driver) typeFallback(value string) error {
	_ = d.page.Press("ControlOrMeta+a")
	if err := d.page.TypeText(value); err != nil {
		return fmt.Errorf("typing fallback value: %w", err)
	}
	return d.page.Press("Enter")
}
