package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug msg", nil)
	l.Info("info msg", nil)
	l.Warn("warn msg", nil)
	l.Error("error msg", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("output contains below-minimum entries:\n%s", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("output missing expected entries:\n%s", out)
	}
}

func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("action applied", Fields{"field": "location", "attempts": 2})

	var e struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if e.Level != "INFO" {
		t.Errorf("level = %q, want INFO", e.Level)
	}
	if e.Message != "action applied" {
		t.Errorf("message = %q", e.Message)
	}
	if e.Fields["field"] != "location" {
		t.Errorf("fields = %v, want field=location", e.Fields)
	}
	if e.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("upload failed", nil, errors.New("timed out"))

	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if e.Error != "timed out" {
		t.Errorf("error = %q, want %q", e.Error, "timed out")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("driver.retries")
	m.IncrCounter("driver.retries")
	m.RecordTiming("driver.fill", 100*time.Millisecond)
	m.RecordTiming("driver.fill", 300*time.Millisecond)

	snap := m.Snapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["driver.retries"] != 2 {
		t.Errorf("counter = %d, want 2", counters["driver.retries"])
	}

	timings := snap["timings"].(map[string]map[string]interface{})
	fill := timings["driver.fill"]
	if fill["count"] != 2 {
		t.Errorf("timing count = %v, want 2", fill["count"])
	}
	if fill["min"] != "100ms" {
		t.Errorf("timing min = %v, want 100ms", fill["min"])
	}
	if fill["max"] != "300ms" {
		t.Errorf("timing max = %v, want 300ms", fill["max"])
	}
}
