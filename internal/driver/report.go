package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/mapper"
)

// FieldFailure records one field the driver could not fill and why.
type FieldFailure struct {
	Field  mapper.Field `json:"field"`
	Reason string       `json:"reason"`
}

// Report is the outcome of one run: which creation URL loaded, which fields
// were filled, and which need manual completion before publishing.
type Report struct {
	State      State          `json:"state"`
	URL        string         `json:"url"`
	Filled     []mapper.Field `json:"filled"`
	Failures   []FieldFailure `json:"failures,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// dropFilled removes a field from the filled list after a late failure, such
// as an upload that never settled.
func (r *Report) dropFilled(field mapper.Field) {
	for i, f := range r.Filled {
		if f == field {
			r.Filled = append(r.Filled[:i], r.Filled[i+1:]...)
			return
		}
	}
}

// Summary renders the report as a short human-readable block for the
// terminal.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft ready at %s\n", r.URL)
	fmt.Fprintf(&b, "Filled %d field(s) in %s\n", len(r.Filled), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	if len(r.Failures) == 0 {
		b.WriteString("All fields applied. Review the draft, then publish manually.\n")
		return b.String()
	}
	b.WriteString("Needs manual completion:\n")
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  - %s: %s\n", f.Field, f.Reason)
	}
	return b.String()
}
