package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// gateStep tracks how many executions overlap.
type gateStep struct {
	current atomic.Int32
	peak    atomic.Int32
}

func (s *gateStep) Name() string { return "gate" }

func (s *gateStep) Do(_ context.Context, _ *PageResult) error {
	n := s.current.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	s.current.Add(-1)
	return nil
}

func makePages(urls ...string) []*PageResult {
	pages := make([]*PageResult, len(urls))
	for i, u := range urls {
		pages[i] = NewPageResult(u)
	}
	return pages
}

func TestBatchRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	gate := &gateStep{}
	factory := func() *Pipeline {
		p := New()
		p.AddStep(gate)
		return p
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))
	pages := makePages("a", "b", "c", "d", "e", "f")

	if err := bp.Process(context.Background(), pages); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if peak := gate.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

// TestBatchIsolatesPageFailures tests that one failing page does not
// sink its batch siblings or the batch itself.
func TestBatchIsolatesPageFailures(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("page broke")
	factory := func() *Pipeline {
		p := New()
		p.AddStep(&conditionalStep{failURL: "https://x.test/bad", err: stepErr})
		return p
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))
	pages := makePages("https://x.test/good", "https://x.test/bad", "https://x.test/also-good")

	if err := bp.Process(context.Background(), pages); err != nil {
		t.Fatalf("Process() error = %v, want nil despite a page failure", err)
	}

	if pages[0].Failed() || pages[2].Failed() {
		t.Errorf("healthy pages marked failed: %v, %v", pages[0].Err, pages[2].Err)
	}
	if !errors.Is(pages[1].Err, stepErr) {
		t.Errorf("pages[1].Err = %v, want the step error", pages[1].Err)
	}
}

type conditionalStep struct {
	failURL string
	err     error
}

func (s *conditionalStep) Name() string { return "conditional" }

func (s *conditionalStep) Do(_ context.Context, r *PageResult) error {
	if r.URL == s.failURL {
		return s.err
	}
	return nil
}

func TestBatchCancellation(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		p := New()
		p.AddStep(&gateStep{})
		return p
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(factory, WithConcurrency(1))
	if err := bp.Process(ctx, makePages("a", "b")); !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestBatchPreservesPositions(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		return New()
	}

	bp := NewBatchProcessor(factory, WithConcurrency(4))
	pages := makePages("first", "second", "third")
	if err := bp.Process(context.Background(), pages); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i, want := range []string{"first", "second", "third"} {
		if pages[i].URL != want {
			t.Errorf("pages[%d].URL = %q, want %q", i, pages[i].URL, want)
		}
	}
}
