// Package harness orchestrates one scripted browser run: validate the
// configuration, acquire a session, wait for the page to settle, hand
// control to the caller's automation function, capture a screenshot if it
// fails, and tear everything down on every exit path.
package harness

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/config"
	"github.com/entrhq/webpilot/pkg/diagnostics"
	"github.com/entrhq/webpilot/pkg/prompt"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// AutomationFunc is the caller-supplied automation logic, invoked exactly
// once per run with the session's page and the capability bundle. Any
// error (or panic) it produces is treated uniformly as a run failure.
type AutomationFunc func(page browser.Page, caps *Capabilities) error

// Harness drives a single run through its lifecycle. One Harness serves
// one run; it is not reusable.
type Harness struct {
	cfg      *config.Config
	engine   browser.Engine
	channel  *prompt.Channel
	log      Logger
	capturer *diagnostics.Capturer

	runID string
	state State

	teardownOnce sync.Once
}

// New creates a harness for one run. The prompt channel is owned by the
// harness from here on: Run closes it during teardown.
func New(cfg *config.Config, engine browser.Engine, channel *prompt.Channel, log Logger) *Harness {
	return &Harness{
		cfg:      cfg,
		engine:   engine,
		channel:  channel,
		log:      log,
		capturer: diagnostics.NewCapturer(cfg.ScreenshotsDir, cfg.DemoMode, log),
		runID:    uuid.New().String(),
		state:    StateIdle,
	}
}

// RunID returns this run's identity.
func (h *Harness) RunID() string {
	return h.runID
}

// State returns the current lifecycle state.
func (h *Harness) State() State {
	return h.state
}

// Run executes the full lifecycle around fn. It returns the run's error
// for callers that want it; failures never skip teardown, and the session
// and prompt channel are each closed exactly once regardless of outcome.
func (h *Harness) Run(ctx context.Context, fn AutomationFunc) error {
	var (
		session browser.Session
		page    browser.Page
	)

	defer func() {
		h.teardown(page, session)
		h.transition(StateTerminated)
	}()

	h.transition(StateValidating)
	if err := h.cfg.Validate(); err != nil {
		h.log.Errorf("configuration invalid: %v", err)
		return err
	}
	if err := h.cfg.EnsureDirectories(); err != nil {
		h.log.Errorf("configuration invalid: %v", err)
		return err
	}

	h.transition(StateAcquiring)
	session, err := h.acquireSession()
	if err != nil {
		return h.fail(page, fmt.Errorf("failed to acquire session: %w", err))
	}

	page, err = session.NewPage()
	if err != nil {
		return h.fail(page, fmt.Errorf("failed to open page: %w", err))
	}

	h.log.Infof("navigating to %s", h.cfg.BaseURL)
	if err := page.Goto(h.cfg.BaseURL); err != nil {
		return h.fail(page, err)
	}

	h.transition(StateReady)
	if err := browser.WaitForReady(page, h.cfg.AdditionalWait); err != nil {
		return h.fail(page, err)
	}

	h.transition(StateRunning)
	if err := h.invoke(page, fn); err != nil {
		return h.fail(page, err)
	}

	h.transition(StateSucceeded)
	return nil
}

// acquireSession opens the ephemeral or persistent session per the
// configuration.
func (h *Harness) acquireSession() (browser.Session, error) {
	opts := browser.LaunchOptions{
		Headless:  h.cfg.Headless,
		UserAgent: h.cfg.UserAgent,
	}

	if h.cfg.UserDataDir != "" {
		h.log.Infof("launching persistent session (profile: %s)", h.cfg.UserDataDir)
		return h.engine.LaunchPersistent(h.cfg.UserDataDir, opts)
	}

	h.log.Infof("launching ephemeral session")
	return h.engine.Launch(opts)
}

// invoke runs the automation function, converting a panic into an error so
// teardown still happens.
func (h *Harness) invoke(page browser.Page, fn AutomationFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("automation panicked: %v", r)
		}
	}()
	return fn(page, h.capabilities(page))
}

// fail records a run failure and attempts one diagnostic screenshot. The
// capture is best-effort and can never escalate the failure.
func (h *Harness) fail(page browser.Page, err error) error {
	h.transition(StateFailed)
	h.log.Errorf("run %s failed: %v", h.runID, err)
	h.capturer.Capture(page, "error")
	return err
}

// teardown closes the prompt channel, the page, and the session, in that
// order. Each close is attempted even if a prior one fails; individual
// failures are logged, never re-raised. Runs at most once.
func (h *Harness) teardown(page browser.Page, session browser.Session) {
	h.teardownOnce.Do(func() {
		h.transition(StateClosingSession)

		if err := h.channel.Close(); err != nil {
			h.log.Warnf("failed to close prompt channel: %v", err)
		} else {
			h.log.Infof("prompt channel closed")
		}

		if page != nil {
			if err := page.Close(); err != nil {
				h.log.Warnf("failed to close page: %v", err)
			} else {
				h.log.Infof("page closed")
			}
		}

		if session != nil {
			if err := session.Close(); err != nil {
				h.log.Warnf("failed to close session: %v", err)
			} else {
				h.log.Infof("session closed")
			}
		}
	})
}

func (h *Harness) transition(next State) {
	h.log.Infof("run %s: %s -> %s", h.runID, h.state, next)
	h.state = next
}
