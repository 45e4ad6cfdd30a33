package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgettracker/internal/logger"
	"budgettracker/internal/services"
)

func init() {
	logger.Init("test")
}

type fakeScanner struct {
	calls  []time.Time
	result *services.BatchResult
	err    error
	block  chan struct{}
}

func (f *fakeScanner) RunScheduledScan(ctx context.Context, now time.Time) (*services.BatchResult, error) {
	f.calls = append(f.calls, now)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New("every hour", &fakeScanner{}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestNew_AcceptsDescriptorsAndStandardSpecs(t *testing.T) {
	for _, spec := range []string{"@every 1h", "@daily", "0 2 * * *"} {
		if _, err := New(spec, &fakeScanner{}); err != nil {
			t.Errorf("spec %q: unexpected error: %v", spec, err)
		}
	}
}

func TestRunOnce_PassesClockAndReturnsResult(t *testing.T) {
	fixed := time.Date(2024, time.January, 31, 2, 0, 0, 0, time.UTC)
	scanner := &fakeScanner{result: &services.BatchResult{
		ProcessedAt: fixed,
		Failed:      []services.MaterializationFailure{{ScheduleID: "x", Stage: services.StageCreateExpense}},
	}}
	s, err := New("@every 1h", scanner, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := s.RunOnce(context.Background())

	if len(scanner.calls) != 1 || !scanner.calls[0].Equal(fixed) {
		t.Fatalf("expected one scan at %v, got %v", fixed, scanner.calls)
	}
	if result == nil || !result.HasFailures() {
		t.Errorf("expected the scanner's result with failures, got %+v", result)
	}
}

func TestRunOnce_ScanErrorReturnsNil(t *testing.T) {
	s, err := New("@every 1h", &fakeScanner{err: errors.New("db down")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result := s.RunOnce(context.Background()); result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestRunOnce_Timeout(t *testing.T) {
	scanner := &fakeScanner{block: make(chan struct{})}
	s, err := New("@every 1h", scanner, WithTimeout(10*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result := s.RunOnce(context.Background()); result != nil {
		t.Errorf("expected nil result after timeout, got %+v", result)
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", &fakeScanner{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.NextRun().IsZero() {
		t.Error("expected zero next run before Start")
	}

	s.Start()
	next := s.NextRun()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if next.IsZero() || next.Before(time.Now()) {
		t.Errorf("expected a future next run, got %v", next)
	}
}
