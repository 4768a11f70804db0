package formspec

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	auditUserAgent = "invitegen/1.0 (github.com/pfrederiksen/invitegen)"
	auditTimeout   = 30 * time.Second
)

// AuditResult reports whether one configured selector resolved in a page.
type AuditResult struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Matches  int    `json:"matches"`
}

// Found reports whether the selector matched at least one element.
func (r AuditResult) Found() bool {
	return r.Matches > 0
}

// Audit checks every CSS selector in the spec against an HTML document and
// reports match counts. Text-based triggers are not auditable statically and
// are skipped. Results are sorted by name for stable output.
func Audit(r io.Reader, s *Set) ([]AuditResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var results []AuditResult
	check := func(name, selector string) {
		if selector == "" {
			return
		}
		results = append(results, AuditResult{
			Name:     name,
			Selector: selector,
			Matches:  doc.Find(selector).Length(),
		})
	}

	for field, spec := range s.Fields {
		if spec == nil {
			continue
		}
		for i, input := range spec.Inputs {
			check(fmt.Sprintf("%s[%d]", field, i), input)
		}
	}

	w := s.Widgets
	check("widget.dialog", w.Dialog)
	check("widget.month_header", w.MonthHeader)
	check("widget.next_month", w.NextMonth)
	check("widget.prev_month", w.PrevMonth)
	check("widget.day_cell", w.DayCell)
	check("widget.time_slot", w.TimeSlot)
	check("widget.suggestion", w.Suggestion)
	check("widget.file_input", w.FileInput)

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// AuditURL fetches a page and audits it against the spec. The creation page
// is rendered client-side, so a fetch of the raw document mainly validates
// reachability and any server-rendered chrome; pass a saved DOM snapshot to
// Audit directly for a full check.
func AuditURL(url string, s *Set) ([]AuditResult, error) {
	client := &http.Client{Timeout: auditTimeout}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", auditUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return Audit(resp.Body, s)
}
