package formspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/invitegen/internal/mapper"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestDefaultsCoverAllMappedFields(t *testing.T) {
	s := Defaults()
	for _, field := range []mapper.Field{
		mapper.FieldTitle,
		mapper.FieldDescription,
		mapper.FieldStartDate,
		mapper.FieldStartTime,
		mapper.FieldEndDate,
		mapper.FieldEndTime,
		mapper.FieldLocation,
		mapper.FieldCoverImage,
	} {
		if _, ok := s.Fields[field]; !ok {
			t.Errorf("Defaults() missing entry for field %s", field)
		}
	}
}

func TestLoadMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.json")
	override := `{
		"create_urls": ["https://example.test/create"],
		"fields": {
			"location": {"trigger": "Where", "inputs": ["input.where"]}
		},
		"widgets": {"month_header": ".cal-header"}
	}`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(s.CreateURLs) != 1 || s.CreateURLs[0] != "https://example.test/create" {
		t.Errorf("CreateURLs = %v, want override", s.CreateURLs)
	}
	if s.Field(mapper.FieldLocation).Trigger != "Where" {
		t.Errorf("location trigger = %q, want Where", s.Field(mapper.FieldLocation).Trigger)
	}
	if s.Widgets.MonthHeader != ".cal-header" {
		t.Errorf("MonthHeader = %q, want .cal-header", s.Widgets.MonthHeader)
	}
	// Untouched defaults survive the merge.
	if s.Widgets.DayCell != Defaults().Widgets.DayCell {
		t.Errorf("DayCell = %q, want default preserved", s.Widgets.DayCell)
	}
	if s.Field(mapper.FieldTitle).Inputs == nil {
		t.Error("title field lost in merge")
	}
}

func TestLoadRejectsPublishTargeting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.json")
	override := `{"fields": {"title": {"trigger": "Publish"}}}`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted a spec targeting the publish control")
	}
}

func TestAudit(t *testing.T) {
	html := `<html><body>
		<h1 contenteditable="true">Untitled Event</h1>
		<div role="dialog">
			<button name="next-month"></button>
			<button name="day" role="gridcell">7</button>
		</div>
		<input type="file">
	</body></html>`

	results, err := Audit(strings.NewReader(html), Defaults())
	if err != nil {
		t.Fatalf("Audit() error: %v", err)
	}

	found := make(map[string]int)
	for _, r := range results {
		found[r.Name] = r.Matches
	}

	if found["title[0]"] != 1 {
		t.Errorf("title[0] matches = %d, want 1", found["title[0]"])
	}
	if found["widget.next_month"] != 1 {
		t.Errorf("widget.next_month matches = %d, want 1", found["widget.next_month"])
	}
	if found["widget.day_cell"] != 1 {
		t.Errorf("widget.day_cell matches = %d, want 1", found["widget.day_cell"])
	}
	if found["widget.month_header"] != 0 {
		t.Errorf("widget.month_header matches = %d, want 0", found["widget.month_header"])
	}
}
