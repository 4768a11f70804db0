package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/schema"
)

// DefaultDuration is applied when the text gives a start time but no end.
const DefaultDuration = 3 * time.Hour

// DefaultStartClock is the time of day used when the text gives a date but
// no time at all.
var DefaultStartClock = clock{hour: 19, minute: 0, valid: true}

// Options control extraction. The zero value uses the package defaults, so
// Extract(text, Options{}) is always safe.
type Options struct {
	// DefaultTimezone is the caller-supplied IANA zone used when the text
	// carries no timezone cue. Empty means DefaultTimezone ("America/New_York").
	DefaultTimezone string

	// Duration applied when no end time is given. Zero means DefaultDuration.
	DefaultDuration time.Duration

	// Now is the reference instant for resolving relative dates ("Friday",
	// "tomorrow"). Zero means time.Now(). Tests inject a fixed instant.
	Now time.Time
}

// Issue describes one field extraction could not determine, and why.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is the structured extraction failure. It enumerates every field that
// could not be determined rather than stopping at the first.
type Error struct {
	Issues []Issue `json:"issues"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", issue.Field, issue.Reason)
	}
	return "extraction failed: " + strings.Join(parts, "; ")
}

var (
	reLocMarker  = regexp.MustCompile(`(?i)\s+(?:at|in|@)\s+`)
	reSpaces     = regexp.MustCompile(`\s+`)
	trailingJunk = regexp.MustCompile(`(?i)(?:[\s,;:.!–-]|\b(?:on|from|at|in|this|next|starting|for)\b)+$`)
	leadingJunk  = regexp.MustCompile(`(?i)^(?:[\s,;:.!–-]|\b(?:the|a|an)\b)+`)
)

// Extract parses a free-text event description into a validated Event.
// It returns *Error when any field cannot be determined; callers surface the
// issues to the user verbatim rather than guessing.
func Extract(text string, opts Options) (*schema.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &Error{Issues: []Issue{{Field: "text", Reason: "input text is empty"}}}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	duration := opts.DefaultDuration
	if duration <= 0 {
		duration = DefaultDuration
	}

	tzName, working, loc, err := resolveTimezone(text, opts.DefaultTimezone)
	if err != nil {
		return nil, &Error{Issues: []Issue{{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", tzName)}}}
	}
	now = now.In(loc)

	info, working := scanTemporal(working)

	var issues []Issue

	start, end, timeIssues := resolveTimes(info, now, loc, duration)
	issues = append(issues, timeIssues...)

	title, location := splitTitleLocation(working)
	if title == "" {
		issues = append(issues, Issue{Field: "title", Reason: "no title-bearing text before the first temporal or locative marker"})
	}

	if issues != nil {
		return nil, &Error{Issues: issues}
	}

	evt, violations := schema.Validate(schema.Event{
		Title:    title,
		Start:    start,
		End:      end,
		Timezone: tzName,
		Location: location,
	})
	if violations != nil {
		for _, v := range violations {
			issues = append(issues, Issue{Field: v.Field, Reason: v.Message})
		}
		return nil, &Error{Issues: issues}
	}
	return evt, nil
}

// resolveTimes turns the scanned temporal info into concrete start/end
// instants in loc. Relative dates resolve to the nearest future occurrence
// against now.
func resolveTimes(info temporalInfo, now time.Time, loc *time.Location, duration time.Duration) (time.Time, time.Time, []Issue) {
	startClock := info.start
	if !startClock.valid {
		startClock = DefaultStartClock
	}

	var year int
	var month time.Month
	var day int

	switch {
	case info.hasDate:
		year = info.year
		month = info.month
		day = info.day
		if year == 0 {
			// Year omitted: nearest future occurrence of that month/day.
			year = now.Year()
			candidate := time.Date(year, month, day, startClock.hour, startClock.minute, 0, 0, loc)
			if !candidate.After(now) {
				year++
			}
		}
	case info.relativeDay == "today":
		year, month, day = now.Date()
	case info.relativeDay == "tomorrow":
		year, month, day = now.AddDate(0, 0, 1).Date()
	case info.hasWeekday:
		days := (int(info.weekday) - int(now.Weekday()) + 7) % 7
		candidate := now.AddDate(0, 0, days)
		probe := time.Date(candidate.Year(), candidate.Month(), candidate.Day(), startClock.hour, startClock.minute, 0, 0, loc)
		if !probe.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		year, month, day = candidate.Date()
	case info.start.valid:
		// A bare time means the nearest future occurrence of that clock.
		year, month, day = now.Date()
		probe := time.Date(year, month, day, startClock.hour, startClock.minute, 0, 0, loc)
		if !probe.After(now) {
			year, month, day = now.AddDate(0, 0, 1).Date()
		}
	default:
		return time.Time{}, time.Time{}, []Issue{{Field: "start", Reason: "no recognizable date or time expression"}}
	}

	start := time.Date(year, month, day, startClock.hour, startClock.minute, 0, 0, loc)

	var end time.Time
	if info.end.valid {
		end = time.Date(year, month, day, info.end.hour, info.end.minute, 0, 0, loc)
		if !end.After(start) {
			// A pm-to-am range crosses midnight; anything else is invalid
			// input and is rejected rather than silently reordered.
			if startClock.hour >= 12 && info.end.hour < 12 {
				end = end.AddDate(0, 0, 1)
			} else {
				return time.Time{}, time.Time{}, []Issue{{Field: "end", Reason: "end time resolves before start time"}}
			}
		}
	} else {
		end = start.Add(duration)
	}

	return start, end, nil
}

// splitTitleLocation derives the title and location from the text remaining
// after temporal expressions were blanked out. The title is the leading
// clause up to the first locative marker; the location is whatever follows
// it, with leading articles stripped.
func splitTitleLocation(cleaned string) (string, string) {
	title := cleaned
	location := ""

	if m := reLocMarker.FindStringIndex(cleaned); m != nil {
		title = cleaned[:m[0]]
		location = cleaned[m[1]:]
	}

	title = tidy(trailingJunk.ReplaceAllString(title, ""))
	location = tidy(trailingJunk.ReplaceAllString(leadingJunk.ReplaceAllString(location, ""), ""))
	return title, location
}

// tidy collapses runs of whitespace left behind by blanked spans.
func tidy(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
