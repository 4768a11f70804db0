package notifier

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/invitegen/internal/schema"
)

func TestFormatAnnouncement(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	tests := []struct {
		name      string
		event     *schema.Event
		inviteURL string
		wantLen   int
		contains  []string
	}{
		{
			name: "complete event",
			event: &schema.Event{
				Title:    "Rooftop Birthday Party",
				Start:    time.Date(2025, time.September, 6, 18, 0, 0, 0, loc),
				Timezone: "America/New_York",
				Location: "Hoboken, NJ",
			},
			inviteURL: "https://partiful.com/e/abc123",
			wantLen:   280,
			contains: []string{
				"Rooftop Birthday Party",
				"Sat Sep 6, 6:00 PM",
				"Hoboken, NJ",
				"https://partiful.com/e/abc123",
				"🎉",
			},
		},
		{
			name: "event without location",
			event: &schema.Event{
				Title:    "Game Night",
				Start:    time.Date(2025, time.September, 12, 19, 0, 0, 0, loc),
				Timezone: "America/New_York",
			},
			inviteURL: "https://partiful.com/e/xyz",
			wantLen:   280,
			contains: []string{
				"Game Night",
				"Fri Sep 12, 7:00 PM",
			},
		},
		{
			name: "no invite URL omits RSVP line",
			event: &schema.Event{
				Title:    "Brunch",
				Start:    time.Date(2025, time.October, 5, 11, 0, 0, 0, loc),
				Timezone: "America/New_York",
			},
			wantLen:  280,
			contains: []string{"Brunch"},
		},
		{
			name: "very long title gets truncated",
			event: &schema.Event{
				Title:    strings.Repeat("An Extremely Long Event Name ", 12),
				Start:    time.Date(2025, time.November, 1, 20, 0, 0, 0, loc),
				Timezone: "America/New_York",
				Location: "Somewhere With A Very Long Venue Name Indeed",
			},
			inviteURL: "https://partiful.com/e/long",
			wantLen:   280,
			contains:  []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAnnouncement(tt.event, tt.inviteURL)

			if len(got) > tt.wantLen {
				t.Errorf("formatAnnouncement() length = %d, want <= %d", len(got), tt.wantLen)
			}

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatAnnouncement() missing %q in:\n%s", want, got)
				}
			}
		})
	}

	t.Run("no invite URL omits RSVP line", func(t *testing.T) {
		got := formatAnnouncement(&schema.Event{
			Title:    "Brunch",
			Start:    time.Date(2025, time.October, 5, 11, 0, 0, 0, loc),
			Timezone: "America/New_York",
		}, "")
		if strings.Contains(got, "RSVP") {
			t.Errorf("announcement without URL should omit RSVP line:\n%s", got)
		}
	})
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewDryRunNotifier(&buf)

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	evt := &schema.Event{
		Title:    "Test Event",
		Start:    time.Date(2025, time.September, 6, 18, 0, 0, 0, loc),
		Timezone: "America/New_York",
	}

	if err := n.Announce(evt, "https://partiful.com/e/test"); err != nil {
		t.Errorf("Announce() error = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "Test Event") {
		t.Errorf("dry run output missing event title:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "dry run") {
		t.Errorf("dry run output should identify itself:\n%s", buf.String())
	}
}
