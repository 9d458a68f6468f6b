// Package browser defines the narrow engine contract webpilot drives a
// session through, and implements it on Playwright. The harness and the
// automation callback only ever see these interfaces, so tests run against
// fakes and the engine stays swappable.
package browser

import "time"

// LoadState is one of the three independent page readiness signals.
type LoadState string

const (
	// LoadStateDOMContentLoaded fires when the structural parse completes.
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"

	// LoadStateLoad fires when the full load event completes.
	LoadStateLoad LoadState = "load"

	// LoadStateNetworkIdle fires after the network has been quiet for the
	// engine's quiescence window.
	LoadStateNetworkIdle LoadState = "networkidle"
)

// Page is one open page within a session.
type Page interface {
	// Goto navigates to url and waits for the initial commit.
	Goto(url string) error

	// WaitForLoadState blocks until the page reaches the given state, or
	// fails once the engine's own ceiling is exceeded.
	WaitForLoadState(state LoadState) error

	// WaitForTimeout suspends for the given duration.
	WaitForTimeout(d time.Duration)

	// Screenshot writes a screenshot of the current page state to path.
	Screenshot(path string) error

	// URL returns the page's current URL.
	URL() string

	// Close closes the page.
	Close() error
}

// Session is one exclusively-owned browser execution context.
type Session interface {
	// NewPage returns the session's page. Exactly one page is open per
	// session; persistent-profile sessions reuse the profile's initial page.
	NewPage() (Page, error)

	// Close closes the execution context and releases its resources.
	Close() error
}

// LaunchOptions configures a new session.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// UserAgent is the identity string for every page in the session.
	UserAgent string
}

// Engine launches browser sessions.
type Engine interface {
	// Launch creates an ephemeral session that leaves no state behind.
	Launch(opts LaunchOptions) (Session, error)

	// LaunchPersistent creates a session backed by a durable profile
	// directory, creating the profile on first use.
	LaunchPersistent(userDataDir string, opts LaunchOptions) (Session, error)
}
