package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/invitegen/internal/driver"
	"github.com/pfrederiksen/invitegen/internal/mapper"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return s
}

func testReport(state driver.State) *driver.Report {
	return &driver.Report{
		State:  state,
		URL:    "https://partiful.com/create",
		Filled: []mapper.Field{mapper.FieldTitle, mapper.FieldStartDate},
	}
}

func TestLoadHistoryEmpty(t *testing.T) {
	s := testStorage(t)

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history.Runs) != 0 {
		t.Errorf("fresh storage has %d runs, want 0", len(history.Runs))
	}
}

func TestSaveRunAppends(t *testing.T) {
	s := testStorage(t)

	if err := s.SaveRun("First Event • Sat Sep 06 6:00 PM", testReport(driver.StateReadyForReview)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun("Second Event • Sun Sep 07 7:00 PM", testReport(driver.StateReviewWithWarnings)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history.Runs) != 2 {
		t.Fatalf("history has %d runs, want 2", len(history.Runs))
	}
	if !strings.HasPrefix(history.Runs[0].Summary, "First Event") {
		t.Errorf("first run summary = %q", history.Runs[0].Summary)
	}
	if history.Runs[1].Report.State != driver.StateReviewWithWarnings {
		t.Errorf("second run state = %s", history.Runs[1].Report.State)
	}
	if history.Runs[0].CreatedAt == "" {
		t.Error("run record missing created_at")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := testStorage(t)

	for _, summary := range []string{"One", "Two", "Three"} {
		if err := s.SaveRun(summary, testReport(driver.StateReadyForReview)); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d records", len(recent))
	}
	if recent[0].Summary != "Three" || recent[1].Summary != "Two" {
		t.Errorf("Recent order = [%s, %s], want [Three, Two]",
			recent[0].Summary, recent[1].Summary)
	}
}

func TestNewExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	s, err := New("~/.cache/invitegen-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(s.dataDir) })

	if s.dataDir == "~/.cache/invitegen-test" {
		t.Error("tilde was not expanded")
	}
	if !strings.HasPrefix(s.dataDir, home) {
		t.Errorf("dataDir = %q, want under %q", s.dataDir, home)
	}
}
