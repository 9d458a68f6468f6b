package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Default values for Playwright-backed sessions.
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Playwright is the Engine implementation backed by the Playwright driver.
type Playwright struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	initialized bool
}

// NewPlaywright creates an uninitialized Playwright engine.
func NewPlaywright() *Playwright {
	return &Playwright{}
}

// Initialize installs and starts the Playwright driver. It must be called
// before launching any session and is a no-op when already initialized.
func (e *Playwright) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	// Discard driver output so it does not interleave with the operator prompt.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	e.pw = pw
	e.initialized = true
	return nil
}

// Stop shuts the driver down. Sessions must be closed first.
func (e *Playwright) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.pw == nil {
		return nil
	}
	if err := e.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	e.initialized = false
	return nil
}

// Launch creates an ephemeral session: a fresh browser with an isolated
// context that leaves no state behind after Close.
func (e *Playwright) Launch(opts LaunchOptions) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	browser, err := e.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	return &playwrightSession{browser: browser, context: context}, nil
}

// LaunchPersistent creates a session backed by the profile directory,
// creating the profile on first use. The persistent context owns the
// browser process, so closing the context closes everything.
func (e *Playwright) LaunchPersistent(userDataDir string, opts LaunchOptions) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	}
	if opts.UserAgent != "" {
		launchOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	context, err := e.pw.Chromium.LaunchPersistentContext(userDataDir, launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch persistent context: %w", err)
	}

	return &playwrightSession{context: context}, nil
}

// playwrightSession is one browser execution context. browser is nil for
// persistent-profile sessions, where the context owns the process.
type playwrightSession struct {
	browser playwright.Browser
	context playwright.BrowserContext

	closeOnce sync.Once
	closeErr  error
}

func (s *playwrightSession) NewPage() (Page, error) {
	// Persistent contexts open with an initial page; reuse it so the
	// session drives exactly one page.
	if pages := s.context.Pages(); len(pages) > 0 {
		pages[0].SetDefaultTimeout(DefaultTimeout)
		return &playwrightPage{page: pages[0]}, nil
	}

	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(DefaultTimeout)
	return &playwrightPage{page: page}, nil
}

// Close closes the context and, for ephemeral sessions, the browser.
// Both are attempted even if the first fails. Safe to call multiple times.
func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		ctxErr := s.context.Close()
		if s.browser != nil {
			if browserErr := s.browser.Close(); browserErr != nil && ctxErr == nil {
				ctxErr = browserErr
			}
		}
		if ctxErr != nil {
			s.closeErr = fmt.Errorf("failed to close session: %w", ctxErr)
		}
	})
	return s.closeErr
}

// playwrightPage adapts a Playwright page to the Page contract.
type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) WaitForLoadState(state LoadState) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: pwLoadState(state),
	})
}

func (p *playwrightPage) WaitForTimeout(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

func pwLoadState(state LoadState) *playwright.LoadState {
	switch state {
	case LoadStateLoad:
		return playwright.LoadStateLoad
	case LoadStateNetworkIdle:
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateDomcontentloaded
	}
}
