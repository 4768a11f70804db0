// Package mapper translates a validated event into the ordered sequence of
// UI actions that fills the creation form.
//
// Plan is a pure function: no I/O, no hidden state, same event in, same
// actions out. That keeps the mapping independently testable without a
// browser; the driver is the only component that touches one.
package mapper

import (
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/schema"
)

// Field names a logical form field. The driver resolves these to concrete
// selectors through the form spec, so the mapper never depends on layout.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStartDate   Field = "start_date"
	FieldStartTime   Field = "start_time"
	FieldEndDate     Field = "end_date"
	FieldEndTime     Field = "end_time"
	FieldLocation    Field = "location"
	FieldCoverImage  Field = "cover_image"
)

// Control identifies the kind of form control a field targets, which decides
// how the driver applies the value.
type Control string

const (
	ControlText         Control = "text"
	ControlDate         Control = "date"
	ControlTime         Control = "time"
	ControlAutocomplete Control = "autocomplete"
	ControlFile         Control = "file"
)

// Action is one field-level instruction: apply Value to the control behind
// Field. Date and time actions also carry the instant (When) so the driver
// can navigate calendar widgets instead of re-parsing display text.
type Action struct {
	Field   Field     `json:"field"`
	Control Control   `json:"control"`
	Value   string    `json:"value"`
	When    time.Time `json:"when,omitempty"`
}

// Plan maps an event to its fill sequence. Order is fixed: title,
// description, then date/time fields, then location, then the cover image
// last. Uploads are the slowest and most failure-prone step and must not
// block earlier field entry. Absent optional fields produce no action; every
// present field produces exactly one.
//
// The end-date action is emitted only for multi-day events; a same-day end
// needs only its time.
func Plan(e *schema.Event) []Action {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start := e.Start.In(loc)

	actions := []Action{
		{Field: FieldTitle, Control: ControlText, Value: e.Title},
	}

	if e.Description != "" {
		actions = append(actions, Action{Field: FieldDescription, Control: ControlText, Value: e.Description})
	}

	actions = append(actions,
		Action{Field: FieldStartDate, Control: ControlDate, Value: dateValue(start), When: start},
		Action{Field: FieldStartTime, Control: ControlTime, Value: timeValue(start), When: start},
	)

	if e.HasEnd() {
		end := e.End.In(loc)
		if e.MultiDay() {
			actions = append(actions, Action{Field: FieldEndDate, Control: ControlDate, Value: dateValue(end), When: end})
		}
		actions = append(actions, Action{Field: FieldEndTime, Control: ControlTime, Value: timeValue(end), When: end})
	}

	if e.Location != "" {
		actions = append(actions, Action{Field: FieldLocation, Control: ControlAutocomplete, Value: e.Location})
	}

	if e.CoverImagePath != "" {
		actions = append(actions, Action{Field: FieldCoverImage, Control: ControlFile, Value: e.CoverImagePath})
	}

	return actions
}

// dateValue renders the typed-text fallback for a date widget,
// e.g. "Sunday, September 7, 2025".
func dateValue(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// timeValue renders a time-slot label the way the form displays them,
// e.g. "6:00PM".
func timeValue(t time.Time) string {
	return strings.TrimPrefix(t.Format("3:04PM"), "0")
}
