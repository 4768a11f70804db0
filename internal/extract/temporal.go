package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clock is a time of day in 24-hour form.
type clock struct {
	hour   int
	minute int
	valid  bool
}

// temporalInfo holds everything the temporal scan recognized in the text.
// At most one date form is populated: an explicit date, a weekday, or a
// relative day word.
type temporalInfo struct {
	hasDate bool
	year    int // 0 when the text gives no year
	month   time.Month
	day     int

	weekday    time.Weekday
	hasWeekday bool

	relativeDay string // "today" or "tomorrow"

	start clock
	end   clock
}

const monthPattern = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	reMonthDate   = regexp.MustCompile(`(?i)\b(?:on\s+)?(` + monthPattern + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	reNumericDate = regexp.MustCompile(`\b(?:on\s+)?(\d{1,2})[/.](\d{1,2})[/.](\d{2,4})\b`)
	reTimeRange12 = regexp.MustCompile(`(?i)\b(?:from\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|–|to|until|till)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	reTimeRange24 = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\s*(?:-|–|to|until|till)\s*([01]?\d|2[0-3]):([0-5]\d)\b`)
	reTime12      = regexp.MustCompile(`(?i)\b(?:at\s+|from\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	reTime24      = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	reNamedTime   = regexp.MustCompile(`(?i)\b(?:at\s+)?(noon|midday|midnight)\b`)
	reWeekday     = regexp.MustCompile(`(?i)\b(?:on\s+|next\s+|this\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues?|wed|thurs|thur|thu|fri|sat|sun)\b`)
	reRelativeDay = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow)\b`)
)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September, "sept": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseMonth maps a month name or abbreviation to its time.Month.
// Returns 0 for unrecognized names.
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := months[name]; ok {
		return m
	}
	if len(name) > 4 {
		if m, ok := months[name[:3]]; ok {
			return m
		}
	}
	return 0
}

// scanTemporal extracts all temporal expressions from text and returns what
// it found plus the text with those expressions blanked out, so title and
// location parsing operate on the non-temporal remainder.
//
// Patterns are applied from most to least specific; each match is blanked
// before the next pattern runs so a "6 pm" inside "from 6 pm to 9 pm" is
// never double-counted.
func scanTemporal(text string) (temporalInfo, string) {
	var info temporalInfo
	working := text

	// Explicit dates first.
	if m := reMonthDate.FindStringSubmatchIndex(working); m != nil {
		month := parseMonth(sub(working, m, 1))
		day, _ := strconv.Atoi(sub(working, m, 2))
		if month != 0 && day >= 1 && day <= 31 {
			info.hasDate = true
			info.month = month
			info.day = day
			if y := sub(working, m, 3); y != "" {
				info.year, _ = strconv.Atoi(y)
			}
			working = blank(working, m[0], m[1])
		}
	}
	if !info.hasDate {
		if m := reNumericDate.FindStringSubmatchIndex(working); m != nil {
			month, _ := strconv.Atoi(sub(working, m, 1))
			day, _ := strconv.Atoi(sub(working, m, 2))
			year, _ := strconv.Atoi(sub(working, m, 3))
			if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
				if year < 100 {
					year += 2000
				}
				info.hasDate = true
				info.month = time.Month(month)
				info.day = day
				info.year = year
				working = blank(working, m[0], m[1])
			}
		}
	}

	// Time ranges before single times.
	if m := reTimeRange12.FindStringSubmatchIndex(working); m != nil {
		startMer := strings.ToLower(sub(working, m, 3))
		endMer := strings.ToLower(sub(working, m, 6))
		end := toClock(sub(working, m, 4), sub(working, m, 5), endMer)
		if startMer == "" {
			// Inherit the end meridiem; flip it when that would invert
			// the range ("11 to 2pm" means 11am).
			startMer = endMer
			start := toClock(sub(working, m, 1), sub(working, m, 2), startMer)
			if start.valid && end.valid && start.hour > end.hour {
				startMer = flipMeridiem(startMer)
			}
		}
		info.start = toClock(sub(working, m, 1), sub(working, m, 2), startMer)
		info.end = end
		working = blank(working, m[0], m[1])
	} else if m := reTimeRange24.FindStringSubmatchIndex(working); m != nil {
		info.start = toClock(sub(working, m, 1), sub(working, m, 2), "")
		info.end = toClock(sub(working, m, 3), sub(working, m, 4), "")
		working = blank(working, m[0], m[1])
	}

	if !info.start.valid {
		if m := reTime12.FindStringSubmatchIndex(working); m != nil {
			info.start = toClock(sub(working, m, 1), sub(working, m, 2), strings.ToLower(sub(working, m, 3)))
			working = blank(working, m[0], m[1])
		} else if m := reTime24.FindStringSubmatchIndex(working); m != nil {
			info.start = toClock(sub(working, m, 1), sub(working, m, 2), "")
			working = blank(working, m[0], m[1])
		} else if m := reNamedTime.FindStringSubmatchIndex(working); m != nil {
			if strings.EqualFold(sub(working, m, 1), "midnight") {
				info.start = clock{hour: 0, valid: true}
			} else {
				info.start = clock{hour: 12, valid: true}
			}
			working = blank(working, m[0], m[1])
		}
	}

	// Relative day words and weekdays only matter when no explicit date won.
	if m := reRelativeDay.FindStringSubmatchIndex(working); m != nil {
		word := strings.ToLower(sub(working, m, 1))
		if word == "tonight" {
			word = "today"
		}
		if !info.hasDate {
			info.relativeDay = word
		}
		working = blank(working, m[0], m[1])
	}
	if m := reWeekday.FindStringSubmatchIndex(working); m != nil {
		// A name the map does not know is not a weekday; leaving it in the
		// text is safer than defaulting to Sunday.
		if wd, ok := weekdays[strings.ToLower(sub(working, m, 1))]; ok {
			if !info.hasDate && info.relativeDay == "" {
				info.weekday = wd
				info.hasWeekday = true
			}
			working = blank(working, m[0], m[1])
		}
	}

	return info, working
}

// sub returns submatch i of a FindStringSubmatchIndex result, or "".
func sub(s string, m []int, i int) string {
	lo, hi := m[2*i], m[2*i+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}

// blank replaces s[lo:hi] with spaces, preserving offsets for later scans.
func blank(s string, lo, hi int) string {
	return s[:lo] + strings.Repeat(" ", hi-lo) + s[hi:]
}

// toClock builds a 24-hour clock value from hour/minute strings and an
// optional meridiem. Invalid input yields an invalid clock.
func toClock(hourStr, minStr, meridiem string) clock {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return clock{}
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute > 59 {
			return clock{}
		}
	}

	switch meridiem {
	case "pm":
		if hour < 1 || hour > 12 {
			return clock{}
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return clock{}
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 23 {
			return clock{}
		}
	}
	return clock{hour: hour, minute: minute, valid: true}
}

func flipMeridiem(m string) string {
	if m == "pm" {
		return "am"
	}
	return "pm"
}
