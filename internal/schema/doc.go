// Package schema defines the structured event record that flows through the
// invite pipeline.
//
// An Event is created once per extraction, validated up front, and consumed
// exactly once by the form mapper. Validation is a pure function that either
// returns a usable instance or the full list of violated invariants, so
// callers can report every problem at once instead of failing piecemeal.
package schema
