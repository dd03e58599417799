package pipeline

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

// recordStep appends its name to a shared call log when executed.
type recordStep struct {
	name string
	err  error

	mu    *sync.Mutex
	calls *[]string
}

func (s *recordStep) Name() string { return s.name }

func (s *recordStep) Do(_ context.Context, _ *PageResult) error {
	if s.calls != nil {
		s.mu.Lock()
		*s.calls = append(*s.calls, s.name)
		s.mu.Unlock()
	}
	return s.err
}

func TestPipelineExecutesInOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls []string
	p := New()
	p.AddSteps(
		&recordStep{name: "first", mu: &mu, calls: &calls},
		&recordStep{name: "second", mu: &mu, calls: &calls},
		&recordStep{name: "third", mu: &mu, calls: &calls},
	)

	result := NewPageResult("https://x.test/page")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("execution order = %v, want %v", calls, want)
	}
	if !reflect.DeepEqual(result.ExecutedSteps, want) {
		t.Errorf("ExecutedSteps = %v, want %v", result.ExecutedSteps, want)
	}
	if result.Failed() {
		t.Errorf("result.Err = %v, want nil", result.Err)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls []string
	stepErr := errors.New("step broke")

	p := New()
	p.AddSteps(
		&recordStep{name: "first", mu: &mu, calls: &calls},
		&recordStep{name: "second", err: stepErr, mu: &mu, calls: &calls},
		&recordStep{name: "third", mu: &mu, calls: &calls},
	)

	result := NewPageResult("https://x.test/page")
	if err := p.Execute(context.Background(), result); !errors.Is(err, stepErr) {
		t.Fatalf("Execute() error = %v, want %v", err, stepErr)
	}

	if !reflect.DeepEqual(calls, []string{"first", "second"}) {
		t.Errorf("calls = %v, want execution to stop at the failing step", calls)
	}
	if !errors.Is(result.Err, stepErr) {
		t.Errorf("result.Err = %v, want the step error recorded", result.Err)
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls []string

	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordStep{name: "first", err: errors.New("step broke"), mu: &mu, calls: &calls},
		&recordStep{name: "second", mu: &mu, calls: &calls},
	)

	result := NewPageResult("https://x.test/page")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v, want nil with continueOnError", err)
	}

	if !reflect.DeepEqual(calls, []string{"first", "second"}) {
		t.Errorf("calls = %v, want both steps executed", calls)
	}
	if result.Err == nil {
		t.Error("result.Err = nil, want the failure recorded")
	}
}

func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var calls []string
	p := New()
	p.AddStep(&recordStep{name: "never", mu: &mu, calls: &calls})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewPageResult("https://x.test/page")
	if err := p.Execute(ctx, result); !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want no step executed after cancellation", calls)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("result.Err = %v, want cancellation recorded", result.Err)
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&recordStep{name: "a"}, &recordStep{name: "b"})

	if got := p.StepCount(); got != 2 {
		t.Errorf("StepCount() = %d, want 2", got)
	}
	if got := p.StepNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("StepNames() = %v, want [a b]", got)
	}
}
