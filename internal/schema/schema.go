package schema

import (
	"fmt"
	"strings"
	"time"
)

// Event is the canonical representation of an event to be drafted as an
// invite. Start and End always carry their location (timezone); a bare local
// time is never stored here.
type Event struct {
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end,omitempty"`
	Timezone       string    `json:"timezone"`
	Location       string    `json:"location,omitempty"`
	CoverImagePath string    `json:"cover_image_path,omitempty"`
}

// Violation describes a single invariant broken by candidate field values.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks candidate field values against the event invariants and
// returns either a valid Event or the list of violations. It has no side
// effects and never mutates its input.
//
// Invariants:
//   - Title is non-empty after trimming.
//   - Start is set and timezone-aware (Timezone resolves via the tz database).
//   - End, when set, is strictly after Start.
func Validate(candidate Event) (*Event, []Violation) {
	var violations []Violation

	candidate.Title = strings.TrimSpace(candidate.Title)
	if candidate.Title == "" {
		violations = append(violations, Violation{Field: "title", Message: "title must not be empty"})
	}

	if candidate.Start.IsZero() {
		violations = append(violations, Violation{Field: "start", Message: "start is required"})
	}

	if candidate.Timezone == "" {
		violations = append(violations, Violation{Field: "timezone", Message: "timezone is required"})
	} else if _, err := time.LoadLocation(candidate.Timezone); err != nil {
		violations = append(violations, Violation{Field: "timezone", Message: fmt.Sprintf("unknown timezone %q", candidate.Timezone)})
	}

	if !candidate.Start.IsZero() && !candidate.End.IsZero() && !candidate.End.After(candidate.Start) {
		violations = append(violations, Violation{Field: "end", Message: "end must be after start"})
	}

	if violations != nil {
		return nil, violations
	}
	return &candidate, nil
}

// HasEnd reports whether the event has an explicit end instant.
func (e *Event) HasEnd() bool {
	return !e.End.IsZero()
}

// MultiDay reports whether the event ends on a different calendar day than it
// starts, evaluated in the event's timezone.
func (e *Event) MultiDay() bool {
	if !e.HasEnd() {
		return false
	}
	loc := e.location()
	sy, sm, sd := e.Start.In(loc).Date()
	ey, em, ed := e.End.In(loc).Date()
	return sy != ey || sm != em || sd != ed
}

// Human returns a concise one-line preview with times localized to the
// event's timezone, e.g. "AI meetup • Sun Sep 07 6:00 PM-9:00 PM at MIT".
func (e *Event) Human() string {
	loc := e.location()
	start := e.Start.In(loc)

	dateStr := start.Format("Mon Jan 02")
	timeStr := clockString(start)

	if e.HasEnd() {
		end := e.End.In(loc)
		if e.MultiDay() {
			timeStr = fmt.Sprintf("%s to %s %s", timeStr, end.Format("Mon Jan 02"), clockString(end))
		} else {
			timeStr = fmt.Sprintf("%s-%s", timeStr, clockString(end))
		}
	}

	out := fmt.Sprintf("%s • %s %s", e.Title, dateStr, timeStr)
	if e.Location != "" {
		out += " at " + e.Location
	}
	return out
}

// location resolves the event's timezone, falling back to UTC. Validated
// events never hit the fallback.
func (e *Event) location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// clockString formats a time of day as "6:00 PM" without a leading zero.
func clockString(t time.Time) string {
	return strings.TrimPrefix(t.Format("3:04 PM"), "0")
}
