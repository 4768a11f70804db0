package extract

import (
	"regexp"
	"time"
)

// DefaultTimezone is the system fallback when neither the text nor the
// caller supplies one.
const DefaultTimezone = "America/New_York"

// US timezone abbreviations map to their IANA zones. Matching is
// case-sensitive uppercase so ordinary words ("pt", "et") never trigger it.
var tzAbbreviations = map[string]string{
	"ET": "America/New_York", "EST": "America/New_York", "EDT": "America/New_York",
	"CT": "America/Chicago", "CST": "America/Chicago", "CDT": "America/Chicago",
	"MT": "America/Denver", "MST": "America/Denver", "MDT": "America/Denver",
	"PT": "America/Los_Angeles", "PST": "America/Los_Angeles", "PDT": "America/Los_Angeles",
	"UTC": "UTC", "GMT": "UTC",
}

var (
	reTZAbbrev = regexp.MustCompile(`\b(EST|EDT|ET|CST|CDT|CT|MST|MDT|MT|PST|PDT|PT|UTC|GMT)\b`)
	reTZIANA   = regexp.MustCompile(`\b[A-Z][A-Za-z_]+/[A-Z][A-Za-z_]+(?:/[A-Z][A-Za-z_]+)?\b`)
)

// resolveTimezone picks the effective timezone in priority order: explicit
// cue in the text, then the caller default, then DefaultTimezone. It returns
// the zone name, the text with any consumed cue blanked out, and the loaded
// location.
func resolveTimezone(text, callerDefault string) (string, string, *time.Location, error) {
	if m := reTZIANA.FindStringIndex(text); m != nil {
		name := text[m[0]:m[1]]
		if loc, err := time.LoadLocation(name); err == nil {
			return name, blank(text, m[0], m[1]), loc, nil
		}
	}

	if m := reTZAbbrev.FindStringIndex(text); m != nil {
		name := tzAbbreviations[text[m[0]:m[1]]]
		loc, err := time.LoadLocation(name)
		if err != nil {
			return "", text, nil, err
		}
		return name, blank(text, m[0], m[1]), loc, nil
	}

	name := callerDefault
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return name, text, nil, err
	}
	return name, text, loc, nil
}
