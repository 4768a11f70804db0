// Package formspec declares how logical form fields map onto the creation
// page's concrete controls.
//
// The mapping is configuration, not logic: when the target site changes its
// markup, a JSON override file fixes the run without touching the driver.
// The audit helpers check a page's HTML against the active spec so layout
// drift is diagnosable before a run.
package formspec

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/invitegen/internal/mapper"
)

// FieldSpec describes how to reach one logical field: an optional
// click-to-reveal trigger (matched by visible text) and candidate input
// selectors tried in order.
type FieldSpec struct {
	Trigger string   `json:"trigger,omitempty"`
	Inputs  []string `json:"inputs,omitempty"`
}

// Widgets holds the selectors for the shared page chrome the driver steers:
// the calendar, the time-slot list, dialogs, and their buttons.
type Widgets struct {
	Dialog       string `json:"dialog"`
	ModalOverlay string `json:"modal_overlay"`
	MonthHeader  string `json:"month_header"`
	NextMonth    string `json:"next_month"`
	PrevMonth    string `json:"prev_month"`
	DayCell      string `json:"day_cell"`
	TimeSlot     string `json:"time_slot"`
	EndToggle    string `json:"end_toggle"` // visible text enabling the end-time section
	SaveButton   string `json:"save_button"`
	SaveText     string `json:"save_text"`
	Suggestion   string `json:"suggestion"`
	FileInput    string `json:"file_input"`
	UploadBusy   string `json:"upload_busy"` // present while a cover upload is in flight
	PublishText  string `json:"publish_text"`
}

// Set is the full declarative mapping for one target form.
type Set struct {
	CreateURLs []string                    `json:"create_urls"`
	Fields     map[mapper.Field]*FieldSpec `json:"fields"`
	Widgets    Widgets                     `json:"widgets"`
}

// Defaults returns the built-in spec for the current markup of the target
// creation page. Selectors prefer placeholders and roles over generated
// class names where the page allows it.
func Defaults() *Set {
	return &Set{
		CreateURLs: []string{
			"https://partiful.com/create",
			"https://www.partiful.com/create",
			"https://partiful.com/invite/new",
		},
		Fields: map[mapper.Field]*FieldSpec{
			mapper.FieldTitle: {
				Inputs: []string{`h1[contenteditable="true"]`, `h1.EditableEventTitle_title__JRGfG`},
			},
			mapper.FieldDescription: {
				Trigger: "Add a description",
				Inputs: []string{
					`textarea[placeholder*="escription"]`,
					`[contenteditable="true"][role="textbox"]`,
				},
			},
			mapper.FieldStartDate: {
				Trigger: "Set a date",
			},
			mapper.FieldStartTime: {},
			mapper.FieldEndDate:   {},
			mapper.FieldEndTime:   {},
			mapper.FieldLocation: {
				Trigger: "Location",
				Inputs: []string{
					`input[placeholder="Place name, address, or link"]`,
					`input[type="search"]`,
					`input[placeholder*="address"]`,
				},
			},
			mapper.FieldCoverImage: {
				Trigger: "Add a cover image",
				Inputs:  []string{`input[type="file"]`},
			},
		},
		Widgets: Widgets{
			Dialog:       `[role="dialog"]`,
			ModalOverlay: `[role="dialog"].legacy-modal-overlay`,
			MonthHeader:  `.ptf-l-2YGTl`,
			NextMonth:    `button[name="next-month"]`,
			PrevMonth:    `button[name="previous-month"]`,
			DayCell:      `button[name="day"][role="gridcell"]`,
			TimeSlot:     `.ptf-l-cv08W`,
			EndToggle:    "End",
			SaveButton:   `[role="dialog"] button`,
			SaveText:     "Save",
			Suggestion:   `div[role="option"]`,
			FileInput:    `input[type="file"]`,
			UploadBusy:   `[role="progressbar"]`,
			PublishText:  "Publish",
		},
	}
}

// Load reads a JSON override file and merges it over the defaults: any
// field spec, widget selector, or URL list present in the file replaces the
// built-in value, everything else is kept.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form spec: %w", err)
	}

	var override Set
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing form spec: %w", err)
	}

	merged := Defaults()
	if len(override.CreateURLs) > 0 {
		merged.CreateURLs = override.CreateURLs
	}
	for field, spec := range override.Fields {
		merged.Fields[field] = spec
	}
	mergeWidgets(&merged.Widgets, &override.Widgets)

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeWidgets copies non-empty override selectors over the defaults.
func mergeWidgets(dst, src *Widgets) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Dialog, src.Dialog)
	set(&dst.ModalOverlay, src.ModalOverlay)
	set(&dst.MonthHeader, src.MonthHeader)
	set(&dst.NextMonth, src.NextMonth)
	set(&dst.PrevMonth, src.PrevMonth)
	set(&dst.DayCell, src.DayCell)
	set(&dst.TimeSlot, src.TimeSlot)
	set(&dst.EndToggle, src.EndToggle)
	set(&dst.SaveButton, src.SaveButton)
	set(&dst.SaveText, src.SaveText)
	set(&dst.Suggestion, src.Suggestion)
	set(&dst.FileInput, src.FileInput)
	set(&dst.UploadBusy, src.UploadBusy)
	set(&dst.PublishText, src.PublishText)
}

// Validate rejects specs that could steer the driver into the publish
// control. Publishing is a manual human action; no trigger or input may
// reference it.
func (s *Set) Validate() error {
	if len(s.CreateURLs) == 0 {
		return fmt.Errorf("form spec has no create URLs")
	}
	publish := strings.ToLower(s.Widgets.PublishText)
	if publish == "" {
		return fmt.Errorf("form spec must name the publish control so the driver can refuse it")
	}
	for field, spec := range s.Fields {
		if spec == nil {
			continue
		}
		if strings.EqualFold(spec.Trigger, s.Widgets.PublishText) {
			return fmt.Errorf("field %s trigger targets the publish control", field)
		}
		for _, input := range spec.Inputs {
			if strings.Contains(strings.ToLower(input), publish) {
				return fmt.Errorf("field %s selector %q targets the publish control", field, input)
			}
		}
	}
	return nil
}

// Field returns the spec for a logical field, or an empty spec when the
// field has no dedicated entry (date/time fields share the calendar widget).
func (s *Set) Field(f mapper.Field) *FieldSpec {
	if spec, ok := s.Fields[f]; ok && spec != nil {
		return spec
	}
	return &FieldSpec{}
}
