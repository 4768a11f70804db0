// Package driver executes a planned action sequence against a live browser
// session and leaves it open for human review.
//
// The driver is a small state machine: Idle → Navigating → Filling →
// AwaitingUploadSettle (cover image only) → ReadyForReview, or
// ReviewWithWarnings when some actions exhausted their retry budget. A failed
// action never aborts the run; the human reviewer can complete the remaining
// fields manually, so a partial fill with an explicit report beats a total
// failure. Session-level problems (no creation URL loads, the browser dies)
// are the only fatal errors.
//
// The publish control is never clicked. That holds structurally: the form
// spec refuses selectors that target it, and every text click is checked
// against the configured publish label before it reaches the page.
//
// The driver talks to the browser through the Page interface so the state
// machine is testable with a scripted fake; internal/browser provides the
// Playwright-backed implementation.
package driver
