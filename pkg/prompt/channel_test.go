package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAsk_AnswerResolves(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("yes\n"), &out, time.Second)
	defer c.Close()

	resp, err := c.Ask(context.Background(), "Continue?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.TimedOut {
		t.Error("expected an answer, got timeout")
	}
	if resp.Answer != "yes" {
		t.Errorf("answer = %q, want %q", resp.Answer, "yes")
	}
	if !strings.Contains(out.String(), "Continue?") {
		t.Errorf("question was not presented, output: %q", out.String())
	}
}

func TestAsk_TimeoutAtConfiguredDuration(t *testing.T) {
	in, _ := io.Pipe() // never delivers a line
	var out bytes.Buffer
	c := New(in, &out, time.Second)
	defer c.Close()

	start := time.Now()
	resp, err := c.AskTimeout(context.Background(), "Continue?", 100*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if !resp.TimedOut {
		t.Error("expected timeout outcome")
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timed out too early: %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("timed out too late: %v", elapsed)
	}
}

func TestAsk_AnswerBeatsTimer(t *testing.T) {
	in, writer := io.Pipe()
	var out bytes.Buffer
	c := New(in, &out, time.Second)
	defer c.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		io.WriteString(writer, "go ahead\n")
	}()

	resp, err := c.AskTimeout(context.Background(), "Continue?", 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.TimedOut {
		t.Error("answer arrived before the timer, expected answered outcome")
	}
	if resp.Answer != "go ahead" {
		t.Errorf("answer = %q, want %q", resp.Answer, "go ahead")
	}

	// The losing timer must not disturb the next question.
	go func() {
		io.WriteString(writer, "still here\n")
	}()
	resp, err = c.AskTimeout(context.Background(), "Again?", 500*time.Millisecond)
	if err != nil {
		t.Fatalf("second Ask failed: %v", err)
	}
	if resp.TimedOut || resp.Answer != "still here" {
		t.Errorf("second response = %+v, want answer %q", resp, "still here")
	}
}

func TestAsk_ChannelUsableAfterTimeout(t *testing.T) {
	in, writer := io.Pipe()
	var out bytes.Buffer
	c := New(in, &out, time.Second)
	defer c.Close()

	resp, err := c.AskTimeout(context.Background(), "First?", 50*time.Millisecond)
	if err != nil || !resp.TimedOut {
		t.Fatalf("expected timeout, got resp=%+v err=%v", resp, err)
	}

	// The operator answers the first question too late. That answer must
	// not resolve the next question.
	go io.WriteString(writer, "late\n")
	time.Sleep(50 * time.Millisecond)

	go func() {
		time.Sleep(50 * time.Millisecond)
		io.WriteString(writer, "fresh\n")
	}()
	resp, err = c.AskTimeout(context.Background(), "Second?", 500*time.Millisecond)
	if err != nil {
		t.Fatalf("second Ask failed: %v", err)
	}
	if resp.TimedOut {
		t.Fatal("second question timed out")
	}
	if resp.Answer != "fresh" {
		t.Errorf("answer = %q, want %q (stale answer leaked)", resp.Answer, "fresh")
	}
}

func TestAsk_ConcurrentQuestionRejected(t *testing.T) {
	in, _ := io.Pipe()
	var out bytes.Buffer
	var mu sync.Mutex // out is written from two Ask calls
	c := New(in, syncWriter{&mu, &out}, time.Second)
	defer c.Close()

	started := make(chan struct{})
	go func() {
		close(started)
		c.AskTimeout(context.Background(), "First?", 300*time.Millisecond)
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	_, err := c.AskTimeout(context.Background(), "Second?", 300*time.Millisecond)
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
}

func TestClose_CancelsOutstandingQuestion(t *testing.T) {
	in, _ := io.Pipe()
	var out bytes.Buffer
	c := New(in, &out, time.Second)

	result := make(chan error, 1)
	go func() {
		_, err := c.AskTimeout(context.Background(), "Anyone?", 5*time.Second)
		result <- err
	}()

	time.Sleep(50 * time.Millisecond)
	c.Close()

	select {
	case err := <-result:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("err = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("outstanding question was not cancelled by Close")
	}

	// Closed means closed, including for later questions.
	if _, err := c.Ask(context.Background(), "More?"); !errors.Is(err, ErrClosed) {
		t.Errorf("Ask after Close: err = %v, want ErrClosed", err)
	}
	// Close is idempotent.
	if err := c.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestAsk_ContextCancellation(t *testing.T) {
	in, _ := io.Pipe()
	var out bytes.Buffer
	c := New(in, &out, time.Second)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.AskTimeout(ctx, "Continue?", 5*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
