package schema

import (
	"strings"
	"testing"
	"time"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading America/New_York: %v", err)
	}
	return loc
}

func TestValidate(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, time.September, 7, 18, 0, 0, 0, loc)

	tests := []struct {
		name       string
		candidate  Event
		wantFields []string // violated fields, empty means valid
	}{
		{
			name: "valid event",
			candidate: Event{
				Title:    "AI meetup",
				Start:    start,
				End:      start.Add(3 * time.Hour),
				Timezone: "America/New_York",
				Location: "MIT, Cambridge, MA",
			},
		},
		{
			name: "valid without end",
			candidate: Event{
				Title:    "Open house",
				Start:    start,
				Timezone: "America/New_York",
			},
		},
		{
			name: "empty title",
			candidate: Event{
				Title:    "   ",
				Start:    start,
				Timezone: "America/New_York",
			},
			wantFields: []string{"title"},
		},
		{
			name: "missing start",
			candidate: Event{
				Title:    "AI meetup",
				Timezone: "America/New_York",
			},
			wantFields: []string{"start"},
		},
		{
			name: "end before start",
			candidate: Event{
				Title:    "AI meetup",
				Start:    start,
				End:      start.Add(-time.Hour),
				Timezone: "America/New_York",
			},
			wantFields: []string{"end"},
		},
		{
			name: "end equal to start",
			candidate: Event{
				Title:    "AI meetup",
				Start:    start,
				End:      start,
				Timezone: "America/New_York",
			},
			wantFields: []string{"end"},
		},
		{
			name: "unknown timezone",
			candidate: Event{
				Title:    "AI meetup",
				Start:    start,
				Timezone: "America/Nowhere",
			},
			wantFields: []string{"timezone"},
		},
		{
			name:       "everything wrong at once",
			candidate:  Event{Timezone: "Not/AZone"},
			wantFields: []string{"title", "start", "timezone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, violations := Validate(tt.candidate)

			if len(tt.wantFields) == 0 {
				if evt == nil {
					t.Fatalf("Validate() returned violations %v, want valid event", violations)
				}
				return
			}

			if evt != nil {
				t.Fatalf("Validate() returned valid event, want violations for %v", tt.wantFields)
			}

			got := make(map[string]bool)
			for _, v := range violations {
				got[v.Field] = true
			}
			for _, field := range tt.wantFields {
				if !got[field] {
					t.Errorf("Validate() missing violation for field %q, got %v", field, violations)
				}
			}
			if len(violations) != len(tt.wantFields) {
				t.Errorf("Validate() returned %d violations, want %d: %v", len(violations), len(tt.wantFields), violations)
			}
		})
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	loc := eastern(t)
	candidate := Event{
		Title:    "  Padded title  ",
		Start:    time.Date(2025, time.September, 7, 18, 0, 0, 0, loc),
		Timezone: "America/New_York",
	}

	evt, violations := Validate(candidate)
	if violations != nil {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if evt.Title != "Padded title" {
		t.Errorf("validated title = %q, want trimmed", evt.Title)
	}
	if candidate.Title != "  Padded title  " {
		t.Errorf("input candidate was mutated: %q", candidate.Title)
	}
}

func TestMultiDay(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, time.September, 7, 22, 0, 0, 0, loc)

	same := Event{Start: start, End: start.Add(time.Hour), Timezone: "America/New_York"}
	if same.MultiDay() {
		t.Error("MultiDay() = true for same-day event")
	}

	overnight := Event{Start: start, End: start.Add(4 * time.Hour), Timezone: "America/New_York"}
	if !overnight.MultiDay() {
		t.Error("MultiDay() = false for overnight event")
	}

	open := Event{Start: start, Timezone: "America/New_York"}
	if open.MultiDay() {
		t.Error("MultiDay() = true for event with no end")
	}
}

func TestHuman(t *testing.T) {
	loc := eastern(t)
	evt := Event{
		Title:    "AI meetup",
		Start:    time.Date(2025, time.September, 7, 18, 0, 0, 0, loc),
		End:      time.Date(2025, time.September, 7, 21, 0, 0, 0, loc),
		Timezone: "America/New_York",
		Location: "MIT, Cambridge, MA",
	}

	got := evt.Human()
	for _, want := range []string{"AI meetup", "Sun Sep 07", "6:00 PM-9:00 PM", "at MIT, Cambridge, MA"} {
		if !strings.Contains(got, want) {
			t.Errorf("Human() = %q, want it to contain %q", got, want)
		}
	}
}
