package browser

import (
	"errors"
	"fmt"
	"time"
)

// ErrReadinessTimeout indicates a page never reached one of its load
// signals within the engine's ceiling.
var ErrReadinessTimeout = errors.New("page readiness timeout")

// readinessSignals is the order in which the three load signals are
// awaited. All three must fire; there is no early exit.
var readinessSignals = []LoadState{
	LoadStateDOMContentLoaded,
	LoadStateLoad,
	LoadStateNetworkIdle,
}

// WaitForReady blocks until the page is considered stable: the structural
// parse, the full load event, and network idle have all been observed, in
// that order, followed by an unconditional settle wait to absorb client-side
// rendering that never shows up as network activity.
func WaitForReady(page Page, settle time.Duration) error {
	for _, state := range readinessSignals {
		if err := page.WaitForLoadState(state); err != nil {
			return fmt.Errorf("%w: %q not reached: %v", ErrReadinessTimeout, state, err)
		}
	}

	if settle > 0 {
		page.WaitForTimeout(settle)
	}
	return nil
}
