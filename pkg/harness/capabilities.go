package harness

import (
	"context"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/prompt"
)

// Capabilities is the read-only bundle of operations handed to the
// automation function. It holds no state of its own beyond the bindings to
// the current run's session, channel, and configuration.
type Capabilities struct {
	h    *Harness
	page browser.Page
}

func (h *Harness) capabilities(page browser.Page) *Capabilities {
	return &Capabilities{h: h, page: page}
}

// AskUser presents a question to the operator and waits for an answer or
// the configured question timeout. The outcome is tagged on the Response.
func (c *Capabilities) AskUser(ctx context.Context, question string) (prompt.Response, error) {
	return c.h.channel.AskTimeout(ctx, question, c.h.cfg.QuestionTimeout)
}

// Screenshot takes a manual diagnostic screenshot tagged with label and
// returns its path. Best-effort: failures are logged and yield "".
func (c *Capabilities) Screenshot(label string) string {
	return c.h.capturer.Capture(c.page, label)
}

// WaitForLoad re-runs page readiness synchronization with the configured
// settle time, for automation logic that triggers its own navigations.
func (c *Capabilities) WaitForLoad() error {
	return browser.WaitForReady(c.page, c.h.cfg.AdditionalWait)
}
