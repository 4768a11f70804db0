// Package extract converts free-text event descriptions into validated
// schema.Event records.
//
// Extraction is deliberately rule-based and deterministic: the same text with
// the same options always yields the same event. The grammar recognizes
// absolute dates ("September 7 2025", "9/7/2025"), relative dates ("Friday",
// "tomorrow"), times and time ranges ("7pm", "from 6 pm to 9 pm", "18:00"),
// timezone cues ("PT", "America/Chicago"), and locative markers ("at", "in").
// Relative dates resolve to the nearest future occurrence against the
// reference instant in Options.
//
// Anything the grammar cannot determine is reported as a structured failure
// enumerating the fields and reasons. Extraction never guesses past a missing
// title or date; those are recoverable at the caller level by asking the user
// to clarify.
package extract
