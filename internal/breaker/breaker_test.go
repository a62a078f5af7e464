// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package breaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wellspring/internal/metrics"
)

var errUpstream = errors.New("upstream failure")

func TestNew_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New[int](Settings{Name: "test-open", Failures: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open state, got %v", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	if !IsOpen(err) {
		t.Errorf("expected open-state rejection, got %v", err)
	}
	if called {
		t.Error("function must not run while the circuit is open")
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
}

func TestNew_SuccessResetsConsecutiveCount(t *testing.T) {
	cb := New[int](Settings{Name: "test-reset", Failures: 2, Cooldown: time.Minute})

	_, _ = cb.Execute(func() (int, error) { return 0, errUpstream })
	_, _ = cb.Execute(func() (int, error) { return 1, nil })
	_, _ = cb.Execute(func() (int, error) { return 0, errUpstream })

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %v", cb.State())
	}
}

func TestNew_CancellationIsNotAFailure(t *testing.T) {
	cb := New[int](Settings{Name: "test-cancel", Failures: 1, Cooldown: time.Minute})

	wrapped := fmt.Errorf("search: %w", context.Canceled)
	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, wrapped })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("cancellations must not open the circuit, state %v", cb.State())
	}

	_, _ = cb.Execute(func() (int, error) { return 0, context.DeadlineExceeded })
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("deadline expiry should count as failure, state %v", cb.State())
	}
}

func TestClassify(t *testing.T) {
	live := context.Background()

	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()

	budget, cancelBudget := WithCallTimeout(context.Background(), time.Nanosecond)
	defer cancelBudget()
	<-budget.Done()

	// The caller's deadline passes before the call's own budget.
	parent, cancelParent := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelParent()
	nested, cancelNested := WithCallTimeout(parent, time.Hour)
	defer cancelNested()
	<-nested.Done()

	tests := []struct {
		name      string
		ctx       context.Context
		err       error
		abandoned bool
	}{
		{"nil error", expired, nil, false},
		{"live context", live, errUpstream, false},
		{"caller deadline", expired, context.DeadlineExceeded, true},
		{"call budget", budget, context.DeadlineExceeded, false},
		{"caller deadline inside budget", nested, context.DeadlineExceeded, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.ctx, tt.err)
			if got := IsAbandoned(err); got != tt.abandoned {
				t.Errorf("IsAbandoned = %v, want %v", got, tt.abandoned)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Classify lost the original error: %v", err)
			}
		})
	}
}

func TestNew_AbandonedCallsDoNotTrip(t *testing.T) {
	cb := New[int](Settings{Name: "test-abandoned", Failures: 2, Cooldown: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, Classify(ctx, ctx.Err()) })
		if IsOpen(err) {
			t.Fatalf("call %d rejected by an open circuit", i)
		}
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("abandoned calls must not open the circuit, state %v", cb.State())
	}

	budget, cancelBudget := WithCallTimeout(context.Background(), time.Nanosecond)
	defer cancelBudget()
	<-budget.Done()
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, Classify(budget, budget.Err()) })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("per-call timeouts should open the circuit, state %v", cb.State())
	}
}

func TestNew_HalfOpenAfterCooldown(t *testing.T) {
	cb := New[int](Settings{Name: "test-halfopen", Failures: 1, Cooldown: 20 * time.Millisecond})

	_, _ = cb.Execute(func() (int, error) { return 0, errUpstream })
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open, got %v", cb.State())
	}

	time.Sleep(40 * time.Millisecond)
	if cb.State() != gobreaker.StateHalfOpen {
		t.Fatalf("expected half-open after cooldown, got %v", cb.State())
	}

	if _, err := cb.Execute(func() (int, error) { return 1, nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed after successful probe, got %v", cb.State())
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("x")
	if s.Name != "x" || s.Failures != 5 || s.Cooldown != time.Minute || s.HalfOpenRequests != 1 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		val   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}
	for _, tt := range tests {
		if got := StateString(tt.state); got != tt.str {
			t.Errorf("StateString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.val {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.val)
		}
	}
}
