// internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Fixed(4, time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Fixed(4, time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("down")
	calls := 0
	err := Fixed(4, time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		return wantErr
	})
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}

func TestDoSingleAttemptReturnsBareError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("down")
	err := Policy{MaxAttempts: 1}.Do(context.Background(), func(context.Context) error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected the bare error, got %v", err)
	}
}

func TestDoExponentialDelayGrows(t *testing.T) {
	t.Parallel()

	calls := 0
	start := time.Now()
	err := Exponential(3, 10*time.Millisecond, 100*time.Millisecond).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	// Delays are 10ms then 20ms.
	if elapsed < 30*time.Millisecond {
		t.Fatalf("expected at least 30ms of backoff, got %v", elapsed)
	}
}

func TestDoHonorsContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	wantErr := errors.New("transient")
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Fixed(10, time.Hour).Do(ctx, func(context.Context) error {
			calls++
			return wantErr
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	err := <-done
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the last failure to surface, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cancellation during the first backoff, got %d attempts", calls)
	}
}

func TestDoCanceledBeforeFirstAttempt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Fixed(3, time.Millisecond).Do(ctx, func(context.Context) error {
		t.Fatal("fn must not run on a canceled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
