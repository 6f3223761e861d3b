package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogTrackerCounts(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	tr := NewLogTracker(slog.New(slog.NewTextHandler(lockedWriter{&mu, &buf}, nil)))

	tr.Begin(500)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Add(100)
		}()
	}
	wg.Wait()
	tr.Done()

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	if !strings.Contains(out, "done=500") {
		t.Errorf("expected final count 500 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "total=500") {
		t.Errorf("expected total 500 in output, got:\n%s", out)
	}
}

func TestAddIgnoresNonPositive(t *testing.T) {
	tr := NewLogTracker(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	tr.Begin(10)
	tr.Add(0)
	tr.Add(-5)
	tr.Done()
}

func TestNoopTracker(t *testing.T) {
	var tr Tracker = NoopTracker{}
	tr.Begin(10)
	tr.Add(3)
	tr.Done()
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
