package recovery

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestRecoverWithLog_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		defer RecoverWithLog(logger, "testGoroutine")
		panic("test panic")
	}()

	wg.Wait()

	output := buf.String()
	for _, want := range []string{"panic recovered", "testGoroutine", "test panic", "stack="} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestRecoverWithLog_NoopOnNoPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	func() {
		defer RecoverWithLog(logger, "normalGoroutine")
	}()

	if buf.Len() > 0 {
		t.Errorf("expected no output when no panic, got: %s", buf.String())
	}
}

func TestGo_CallsOnPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := make(chan interface{}, 1)
	Go(logger, "server", func() {
		panic("listener exploded")
	}, func(r interface{}) {
		got <- r
	})

	if r := <-got; r != "listener exploded" {
		t.Errorf("onPanic got %v, want %q", r, "listener exploded")
	}
	if !strings.Contains(buf.String(), "goroutine=server") {
		t.Errorf("expected goroutine name in output, got: %s", buf.String())
	}
}

func TestGo_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	Go(nil, "worker", func() { close(done) }, nil)
	<-done
}

func TestGo_NilLoggerPanic(t *testing.T) {
	got := make(chan struct{})
	Go(nil, "quiet", func() { panic("boom") }, func(interface{}) { close(got) })
	<-got
}
