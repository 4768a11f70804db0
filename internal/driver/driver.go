package driver

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/invitegen/internal/formspec"
	"github.com/pfrederiksen/invitegen/internal/logger"
	"github.com/pfrederiksen/invitegen/internal/mapper"
)

// State is the driver's position in its lifecycle.
type State string

const (
	StateIdle                 State = "idle"
	StateNavigating           State = "navigating"
	StateFilling              State = "filling"
	StateAwaitingUploadSettle State = "awaiting_upload_settle"
	StateReadyForReview       State = "ready_for_review"
	StateReviewWithWarnings   State = "review_with_warnings"
)

// Page is the minimal browser surface the driver needs. Every operation
// blocks until its wait condition is met or the timeout elapses; a timed-out
// wait is an action failure, not a fatal one.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Click(selector string, timeout time.Duration) error
	ClickText(text string, timeout time.Duration) error
	ClickWithText(selector, text string, timeout time.Duration) error
	ClickExact(selector, text string, timeout time.Duration) error
	ClickFirst(selector string, timeout time.Duration) error
	Fill(selector, value string, timeout time.Duration) error
	TypeText(text string) error
	Press(key string) error
	SetFiles(selector, path string, timeout time.Duration) error
	WaitVisible(selector string, timeout time.Duration) error
	WaitGone(selector string, timeout time.Duration) error
	Text(selector string, timeout time.Duration) (string, error)
	Count(selector string) (int, error)
}

// RetryPolicy bounds per-action retries. Backoff between attempts absorbs
// client-side rendering delay on the target site.
type RetryPolicy struct {
	MaxAttempts     uint64        `json:"max_attempts"`
	InitialInterval time.Duration `json:"initial_interval"`
	MaxInterval     time.Duration `json:"max_interval"`
	Multiplier      float64       `json:"multiplier"`
}

// DefaultRetryPolicy suits the target site's usual responsiveness.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	}
}

func (p RetryPolicy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	return backoff.WithMaxRetries(b, attempts-1)
}

// Config holds the driver's tunables.
type Config struct {
	Retry         RetryPolicy
	ActionTimeout time.Duration // per browser operation
	NavTimeout    time.Duration // per creation-URL load attempt
	SettleTimeout time.Duration // cover upload settle
}

// DefaultConfig returns the standard timeouts and retry policy.
func DefaultConfig() Config {
	return Config{
		Retry:         DefaultRetryPolicy(),
		ActionTimeout: 5 * time.Second,
		NavTimeout:    15 * time.Second,
		SettleTimeout: 30 * time.Second,
	}
}

// Driver runs one action sequence against one exclusively-owned page. It is
// not safe for concurrent use; run two events with two drivers.
type Driver struct {
	page  Page
	forms *formspec.Set
	cfg   Config
	log   *logger.Logger

	state      State
	pickerOpen bool
	endEnabled bool
}

// New creates a driver for the given page and form spec. The spec is
// validated up front so a publish-targeting selector can never reach a run.
func New(page Page, forms *formspec.Set, cfg Config, log *logger.Logger) (*Driver, error) {
	if err := forms.Validate(); err != nil {
		return nil, fmt.Errorf("validating form spec: %w", err)
	}
	if cfg.ActionTimeout <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.New(logger.LevelError, io.Discard)
	}
	return &Driver{
		page:  page,
		forms: forms,
		cfg:   cfg,
		log:   log,
		state: StateIdle,
	}, nil
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Run navigates to the creation page and applies each action in sequence.
// It always returns a report unless a session-level error occurs: either
// every action applied (ReadyForReview) or the report names the fields that
// need manual completion (ReviewWithWarnings). The browser session is left
// open in both cases.
func (d *Driver) Run(actions []mapper.Action) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	d.state = StateNavigating
	url, err := d.navigate()
	if err != nil {
		d.state = StateIdle
		return nil, err
	}
	report.URL = url

	d.dismissOverlays()

	d.state = StateFilling
	uploadedCover := false
	for _, action := range actions {
		start := time.Now()
		err := d.retryAction(action)
		logger.RecordTiming("driver.action."+string(action.Field), time.Since(start))

		if err != nil {
			d.log.Warn("action exhausted retries", logger.Fields{
				"field": string(action.Field),
				"error": err.Error(),
			})
			report.Failures = append(report.Failures, FieldFailure{Field: action.Field, Reason: err.Error()})
			continue
		}
		report.Filled = append(report.Filled, action.Field)
		if action.Field == mapper.FieldCoverImage {
			uploadedCover = true
		}
	}
	d.closePicker()

	if uploadedCover {
		d.state = StateAwaitingUploadSettle
		if err := d.waitUploadSettle(); err != nil {
			d.log.Warn("cover upload did not settle", logger.Fields{"error": err.Error()})
			report.dropFilled(mapper.FieldCoverImage)
			report.Failures = append(report.Failures, FieldFailure{
				Field:  mapper.FieldCoverImage,
				Reason: "upload did not visibly complete: " + err.Error(),
			})
		}
	}

	if len(report.Failures) > 0 {
		d.state = StateReviewWithWarnings
	} else {
		d.state = StateReadyForReview
	}
	report.State = d.state
	report.FinishedAt = time.Now().UTC()

	d.log.Info("run finished", logger.Fields{
		"state":  string(d.state),
		"filled": len(report.Filled),
		"failed": len(report.Failures),
	})
	return report, nil
}

// navigate tries each configured creation URL in order until one loads.
func (d *Driver) navigate() (string, error) {
	var lastErr error
	for _, url := range d.forms.CreateURLs {
		if err := d.page.Goto(url, d.cfg.NavTimeout); err != nil {
			d.log.Warn("creation URL failed to load", logger.Fields{"url": url, "error": err.Error()})
			lastErr = err
			continue
		}
		d.log.Info("creation page loaded", logger.Fields{"url": url})
		return url, nil
	}
	return "", fmt.Errorf("loading creation page: all %d URLs failed: %w", len(d.forms.CreateURLs), lastErr)
}

// dismissOverlays closes any modal overlay blocking the form. Best effort.
func (d *Driver) dismissOverlays() {
	sel := d.forms.Widgets.ModalOverlay
	if sel == "" {
		return
	}
	if n, err := d.page.Count(sel); err != nil || n == 0 {
		return
	}
	_ = d.page.Press("Escape")
	if err := d.page.WaitGone(sel, d.cfg.ActionTimeout); err != nil {
		// Some overlays ignore Escape but close on a direct click.
		_ = d.page.ClickFirst(sel, d.cfg.ActionTimeout)
		_ = d.page.WaitGone(sel, d.cfg.ActionTimeout)
	}
}

// retryAction applies one action under the retry policy.
func (d *Driver) retryAction(action mapper.Action) error {
	attempts := 0
	op := func() error {
		attempts++
		if attempts > 1 {
			logger.IncrCounter("driver.retries")
		}
		return d.apply(action)
	}
	return backoff.Retry(op, d.cfg.Retry.newBackOff())
}

// clickText clicks a control by its visible text, refusing the publish
// control unconditionally.
func (d *Driver) clickText(text string) error {
	if strings.EqualFold(strings.TrimSpace(text), d.forms.Widgets.PublishText) {
		return fmt.Errorf("refusing to click the publish control")
	}
	return d.page.ClickText(text, d.cfg.ActionTimeout)
}

// closePicker dismisses the date picker if a previous action left it open.
func (d *Driver) closePicker() {
	if !d.pickerOpen {
		return
	}
	_ = d.page.Press("Escape")
	d.pickerOpen = false
}

// waitUploadSettle blocks until the upload-progress indicator is gone.
func (d *Driver) waitUploadSettle() error {
	busy := d.forms.Widgets.UploadBusy
	if busy == "" {
		return nil
	}
	if n, err := d.page.Count(busy); err == nil && n == 0 {
		return nil
	}
	return d.page.WaitGone(busy, d.cfg.SettleTimeout)
}
