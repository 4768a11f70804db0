// Package browser wraps a Playwright Chromium session behind the small
// page surface the automation driver needs.
//
// The session stays open after a run so a human can review the draft and
// publish it; callers own the Close call. A persistent profile directory
// keeps the target site's login across runs.
package browser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options controls how the browser session is launched.
type Options struct {
	// Headless hides the browser window. Review runs want it visible.
	Headless bool
	// ProfileDir, when set, launches a persistent context rooted there so
	// cookies and logins survive between runs.
	ProfileDir string
}

// Session is a live Chromium page. It satisfies the driver's Page interface.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser // nil when running a persistent context
	context playwright.BrowserContext
	page    playwright.Page
}

// Install downloads the Chromium build Playwright drives. Safe to call when
// already installed.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Launch starts Chromium and opens a blank page.
func Launch(opts Options) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	s := &Session{pw: pw}

	if opts.ProfileDir != "" {
		ctx, err := pw.Chromium.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(opts.Headless),
		})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launching persistent context: %w", err)
		}
		s.context = ctx
		if pages := ctx.Pages(); len(pages) > 0 {
			s.page = pages[0]
		}
	} else {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launching chromium: %w", err)
		}
		s.browser = browser
		ctx, err := browser.NewContext()
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("creating browser context: %w", err)
		}
		s.context = ctx
	}

	if s.page == nil {
		page, err := s.context.NewPage()
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("opening page: %w", err)
		}
		s.page = page
	}
	return s, nil
}

// Close tears down the page, context, browser, and Playwright runtime.
func (s *Session) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.context != nil {
		keep(s.context.Close())
	}
	if s.browser != nil {
		keep(s.browser.Close())
	}
	if s.pw != nil {
		keep(s.pw.Stop())
	}
	return firstErr
}

// Goto loads a URL and waits for the network to go idle, which on the
// target site means the client-side app has rendered.
func (s *Session) Goto(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(timeout),
	})
	return err
}

// Click clicks the first element matching the selector.
func (s *Session) Click(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
}

// ClickText clicks the first element whose visible text contains the given
// string.
func (s *Session) ClickText(text string, timeout time.Duration) error {
	return s.page.GetByText(text).First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
}

// ClickWithText clicks the first selector match whose text contains the
// given string.
func (s *Session) ClickWithText(selector, text string, timeout time.Duration) error {
	loc := s.page.Locator(selector, playwright.PageLocatorOptions{HasText: text})
	return loc.First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
}

// ClickExact clicks the first enabled selector match whose whole trimmed
// text equals the given string. Calendar day cells need this; a substring
// match for "1" would hit an outside day like "31".
func (s *Session) ClickExact(selector, text string, timeout time.Duration) error {
	pattern := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(text) + `\s*$`)
	loc := s.page.Locator(selector+":not([disabled])", playwright.PageLocatorOptions{HasText: pattern})
	return loc.First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
}

// ClickFirst clicks the first selector match, forcing through overlay
// intercepts.
func (s *Session) ClickFirst(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
		Force:   playwright.Bool(true),
	})
}

// Fill sets an input's value directly.
func (s *Session) Fill(selector, value string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)})
}

// TypeText types into the focused element keystroke by keystroke. Some of
// the target form's controls only commit values typed this way.
func (s *Session) TypeText(text string) error {
	return s.page.Keyboard().Type(text, playwright.KeyboardTypeOptions{Delay: playwright.Float(15)})
}

// Press sends a single key chord to the focused element.
func (s *Session) Press(key string) error {
	return s.page.Keyboard().Press(key)
}

// SetFiles attaches a local file to a file input.
func (s *Session) SetFiles(selector, path string, timeout time.Duration) error {
	return s.page.Locator(selector).First().SetInputFiles(path, playwright.LocatorSetInputFilesOptions{Timeout: ms(timeout)})
}

// WaitVisible blocks until the selector has a visible match.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

// WaitGone blocks until the selector has no visible match.
func (s *Session) WaitGone(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
}

// Text returns the inner text of the first selector match.
func (s *Session) Text(selector string, timeout time.Duration) (string, error) {
	return s.page.Locator(selector).First().InnerText(playwright.LocatorInnerTextOptions{Timeout: ms(timeout)})
}

// Count returns how many elements currently match the selector.
func (s *Session) Count(selector string) (int, error) {
	return s.page.Locator(selector).Count()
}

// URL returns the page's current address.
func (s *Session) URL() string {
	return s.page.URL()
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
