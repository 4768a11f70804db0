package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pfrederiksen/invitegen/internal/driver"
	"github.com/pfrederiksen/invitegen/internal/extract"
	"github.com/pfrederiksen/invitegen/internal/formspec"
	"github.com/pfrederiksen/invitegen/internal/mapper"
	"github.com/pfrederiksen/invitegen/internal/schema"
	"github.com/pfrederiksen/invitegen/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteEvent prints a structured event.
func WriteEvent(w io.Writer, evt *schema.Event, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, evt)
	}

	fmt.Fprintf(w, "Title:    %s\n", evt.Title)
	if evt.Description != "" {
		fmt.Fprintf(w, "About:    %s\n", evt.Description)
	}
	fmt.Fprintf(w, "Starts:   %s\n", evt.Start.Format("Monday, January 2, 2006 at 3:04 PM MST"))
	if evt.HasEnd() {
		fmt.Fprintf(w, "Ends:     %s\n", evt.End.Format("Monday, January 2, 2006 at 3:04 PM MST"))
	}
	fmt.Fprintf(w, "Timezone: %s\n", evt.Timezone)
	if evt.Location != "" {
		fmt.Fprintf(w, "Where:    %s\n", evt.Location)
	}
	if evt.CoverImagePath != "" {
		fmt.Fprintf(w, "Cover:    %s\n", evt.CoverImagePath)
	}
	return nil
}

// writeExtractError prints extraction issues and returns a terminal error.
func writeExtractError(w io.Writer, err error, format OutputFormat) error {
	var exErr *extract.Error
	if !errors.As(err, &exErr) {
		return err
	}

	if format == FormatJSON {
		if werr := writeJSON(w, exErr); werr != nil {
			return werr
		}
		return fmt.Errorf("extraction failed")
	}

	fmt.Fprintln(w, "Could not extract an event:")
	for _, issue := range exErr.Issues {
		fmt.Fprintf(w, "  - %s: %s\n", issue.Field, issue.Reason)
	}
	return fmt.Errorf("extraction failed")
}

// dryRunResult is the JSON shape of a --dry-run invocation.
type dryRunResult struct {
	Event   *schema.Event   `json:"event"`
	Actions []mapper.Action `json:"actions"`
}

// WriteDryRun prints the planned actions without executing them.
func WriteDryRun(w io.Writer, evt *schema.Event, actions []mapper.Action, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, dryRunResult{Event: evt, Actions: actions})
	}

	fmt.Fprintf(w, "Planned actions (%d):\n", len(actions))
	for i, a := range actions {
		fmt.Fprintf(w, "  %2d. %-12s %-12s %s\n", i+1, a.Field, a.Control, a.Value)
	}
	fmt.Fprintln(w, "\nDry run: no browser was opened.")
	return nil
}

// runResult is the JSON shape of a completed run.
type runResult struct {
	Event  *schema.Event  `json:"event"`
	Report *driver.Report `json:"report"`
}

// WriteReport prints the outcome of a fill run.
func WriteReport(w io.Writer, evt *schema.Event, report *driver.Report, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, runResult{Event: evt, Report: report})
	}
	fmt.Fprint(w, report.Summary())
	return nil
}

// WriteAudit prints selector audit results.
func WriteAudit(w io.Writer, results []formspec.AuditResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, results)
	}

	broken := 0
	for _, r := range results {
		marker := "ok"
		if r.Matches == 0 {
			marker = "MISSING"
			broken++
		}
		fmt.Fprintf(w, "%-8s %-16s %3d  %s\n", marker, r.Name, r.Matches, r.Selector)
	}
	if broken > 0 {
		fmt.Fprintf(w, "\n%d selector(s) matched nothing; the page markup may have drifted.\n", broken)
	} else {
		fmt.Fprintln(w, "\nAll selectors resolve.")
	}
	return nil
}

// WriteHistory prints past run records, newest first.
func WriteHistory(w io.Writer, records []storage.RunRecord, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %-20s %s", rec.CreatedAt, rec.Report.State, rec.Summary)
		if n := len(rec.Report.Failures); n > 0 {
			fmt.Fprintf(w, "  (%d field(s) needed manual completion)", n)
		}
		fmt.Fprintln(w)
	}
	return nil
}
