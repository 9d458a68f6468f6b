// Package prompt is the interactive channel between a running automation
// and a human operator. One question may be in flight at a time; each
// question races against a hard timeout, and whichever side wins, the
// loser's effect is suppressed.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrBusy is returned when a question is asked while another is still
	// in flight. The channel does not queue questions.
	ErrBusy = errors.New("prompt: a question is already in flight")

	// ErrClosed is returned when the channel has been shut down, including
	// to a question that was outstanding at close time.
	ErrClosed = errors.New("prompt: channel is closed")
)

// Response is the tagged outcome of one question. Exactly one of the two
// shapes applies: an answer, or a timeout.
type Response struct {
	Answer   string
	TimedOut bool
}

// Channel is a single long-lived operator Q&A channel. It is shared across
// a whole run and closed exactly once during teardown.
type Channel struct {
	out            io.Writer
	defaultTimeout time.Duration

	lines chan string
	done  chan struct{}

	closeOnce sync.Once
	inFlight  atomic.Bool

	// stale is set when a question times out: the operator may still type
	// an answer to it, which must not resolve a later question it can be
	// told apart from.
	stale atomic.Bool
}

// New creates a channel reading operator answers line by line from in and
// presenting questions on out. The reader goroutine lives until Close.
func New(in io.Reader, out io.Writer, defaultTimeout time.Duration) *Channel {
	c := &Channel{
		out:            out,
		defaultTimeout: defaultTimeout,
		lines:          make(chan string),
		done:           make(chan struct{}),
	}
	go c.readLines(in)
	return c
}

func (c *Channel) readLines(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
}

// Ask presents question to the operator and blocks until an answer arrives
// or the channel's default timeout elapses.
func (c *Channel) Ask(ctx context.Context, question string) (Response, error) {
	return c.AskTimeout(ctx, question, c.defaultTimeout)
}

// AskTimeout is Ask with an explicit timeout.
//
// The outcome is tagged on the Response: a timeout is a normal result, not
// an error, and leaves the channel usable for subsequent questions. Errors
// are reserved for misuse: a concurrent question (ErrBusy), a closed
// channel (ErrClosed), or caller cancellation.
func (c *Channel) AskTimeout(ctx context.Context, question string, timeout time.Duration) (Response, error) {
	select {
	case <-c.done:
		return Response{}, ErrClosed
	default:
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return Response{}, ErrBusy
	}
	defer c.inFlight.Store(false)

	// A previous question may have timed out with its answer still in
	// transit. Drop at most one stale line so it cannot resolve this one.
	if c.stale.Swap(false) {
		select {
		case <-c.lines:
		default:
		}
	}

	fmt.Fprintln(c.out, renderQuestion(question, timeout))

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()

	case <-c.done:
		return Response{}, ErrClosed

	case <-timer.C:
		c.stale.Store(true)
		return Response{TimedOut: true}, nil

	case line := <-c.lines:
		return Response{Answer: line}, nil
	}
}

// Close shuts the channel down, cancelling any question still outstanding.
// Safe to call multiple times.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}
