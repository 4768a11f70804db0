package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/invitegen/internal/schema"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("loading location %s: %v", name, err)
	}
	return loc
}

func TestGenerateICS(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	evt := &schema.Event{
		Title:       "Rooftop Party",
		Description: "Snacks provided",
		Start:       time.Date(2025, time.September, 6, 18, 0, 0, 0, ny),
		End:         time.Date(2025, time.September, 6, 21, 0, 0, 0, ny),
		Timezone:    "America/New_York",
		Location:    "Hoboken, NJ",
	}

	ics := GenerateICS(evt)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//invitegen//invitegen//EN",
		"BEGIN:VEVENT",
		"UID:",
		"DTSTAMP:",
		"DTSTART:20250906T220000Z", // 6 PM EDT
		"DTEND:20250907T010000Z",   // 9 PM EDT
		"SUMMARY:Rooftop Party",
		"DESCRIPTION:Snacks provided",
		"LOCATION:Hoboken\\, NJ", // comma is escaped
		"STATUS:TENTATIVE",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
}

func TestGenerateICS_NoEnd(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	evt := &schema.Event{
		Title:    "Open House",
		Start:    time.Date(2025, time.October, 1, 10, 0, 0, 0, ny),
		Timezone: "America/New_York",
	}

	ics := GenerateICS(evt)

	// An hour-long placeholder keeps the entry valid.
	if !strings.Contains(ics, "DTSTART:20251001T140000Z") {
		t.Error("missing DTSTART")
	}
	if !strings.Contains(ics, "DTEND:20251001T150000Z") {
		t.Error("missing one-hour fallback DTEND")
	}
	if strings.Contains(ics, "DESCRIPTION:") {
		t.Error("empty description should be omitted")
	}
	if strings.Contains(ics, "LOCATION:") {
		t.Error("empty location should be omitted")
	}
}

func TestGenerateICS_SpecialCharacters(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	evt := &schema.Event{
		Title:    "Dinner; Drinks, Dancing\\More\nAfterparty",
		Start:    time.Date(2025, time.November, 8, 19, 0, 0, 0, ny),
		Timezone: "America/New_York",
	}

	ics := GenerateICS(evt)

	if strings.Contains(ics, "SUMMARY:Dinner; Drinks, Dancing\\More\nAfterparty") {
		t.Error("special characters should be escaped in SUMMARY")
	}
	if !strings.Contains(ics, "\\;") || !strings.Contains(ics, "\\,") || !strings.Contains(ics, "\\n") {
		t.Error("special characters should be escaped")
	}
}

func TestEventUIDStable(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	evt := &schema.Event{
		Title:    "Game Night",
		Start:    time.Date(2025, time.September, 12, 19, 0, 0, 0, ny),
		Timezone: "America/New_York",
		Location: "My place",
	}

	if eventUID(evt) != eventUID(evt) {
		t.Error("UID should be deterministic for the same event")
	}

	other := *evt
	other.Title = "Movie Night"
	if eventUID(evt) == eventUID(&other) {
		t.Error("different events should get different UIDs")
	}
}

func TestFormatICSTime(t *testing.T) {
	testTime := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	formatted := formatICSTime(testTime)

	expected := "20260315T143000Z"
	if formatted != expected {
		t.Errorf("formatICSTime() = %q, want %q", formatted, expected)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text with, comma", "Text with\\, comma"},
		{"Text with; semicolon", "Text with\\; semicolon"},
		{"Text with\\backslash", "Text with\\\\backslash"},
		{"Text with\nnewline", "Text with\\nnewline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeICS(tt.input)
			if got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
