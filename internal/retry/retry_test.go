package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeNotifier 记录熔断器回调次数
type fakeNotifier struct {
	exhausted int
	success   int
}

func (f *fakeNotifier) RecordFailureExhausted() { f.exhausted++ }
func (f *fakeNotifier) RecordSuccess()          { f.success++ }

func TestExecutor_SucceedsAfterFailures(t *testing.T) {
	e := NewExecutor(3, 2*time.Second)
	var delays []time.Duration
	e.sleep = func(d time.Duration) { delays = append(delays, d) }

	n := &fakeNotifier{}
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	got, err := e.Execute(context.Background(), n, op)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if got != "ok" {
		t.Errorf("Execute() = %q, want %q", got, "ok")
	}
	if n.success != 1 {
		t.Errorf("RecordSuccess calls = %d, want 1", n.success)
	}
	if n.exhausted != 0 {
		t.Errorf("RecordFailureExhausted calls = %d, want 0", n.exhausted)
	}
	// 线性退避：2s、4s
	if len(delays) != 2 || delays[0] != 2*time.Second || delays[1] != 4*time.Second {
		t.Errorf("delays = %v, want [2s 4s]", delays)
	}
}

func TestExecutor_Exhaustion(t *testing.T) {
	e := NewExecutor(3, time.Millisecond)
	e.sleep = func(time.Duration) {}

	n := &fakeNotifier{}
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("always fails")
	}

	_, err := e.Execute(context.Background(), n, op)
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("Execute() error = %v, want ErrAttemptsExhausted", err)
	}
	if calls != 3 {
		t.Errorf("op calls = %d, want 3", calls)
	}
	if n.exhausted != 1 {
		t.Errorf("RecordFailureExhausted calls = %d, want 1", n.exhausted)
	}
	if n.success != 0 {
		t.Errorf("RecordSuccess calls = %d, want 0", n.success)
	}
}

func TestExecutor_FirstTrySuccessSkipsSleep(t *testing.T) {
	e := NewExecutor(3, 2*time.Second)
	slept := false
	e.sleep = func(time.Duration) { slept = true }

	n := &fakeNotifier{}
	got, err := e.Execute(context.Background(), n, func(ctx context.Context) (string, error) {
		return "first", nil
	})
	if err != nil || got != "first" {
		t.Fatalf("Execute() = %q, %v, want %q, nil", got, err, "first")
	}
	if slept {
		t.Error("sleep called on immediate success")
	}
}
