package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)

	if got := limiter.Status(); got != (UploadLimiterStatus{Active: 0, Available: 2, MaxConcurrent: 2}) {
		t.Errorf("initial status = %+v", got)
	}

	ctx := context.Background()
	release1, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	release2, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if got := limiter.Status(); got.Active != 2 || got.Available != 0 {
		t.Errorf("full status = %+v", got)
	}

	release1()
	release1() // second call is a no-op
	if got := limiter.Status(); got.Active != 1 || got.Available != 1 {
		t.Errorf("after release status = %+v", got)
	}
	release2()
}

func TestUploadLimiter_Timeout(t *testing.T) {
	limiter := NewUploadLimiter(1, 20*time.Millisecond)
	release, err := limiter.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if _, err := limiter.Acquire(context.Background()); !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("err = %v, want ErrTooManyUploads", err)
	}
}

func TestUploadLimiter_ContextCancelled(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Minute)
	release, err := limiter.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Second)
	release, err := limiter.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("busy drain err = %v, want deadline", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()
	if err := limiter.WaitForDrain(context.Background()); err != nil {
		t.Errorf("drain err = %v", err)
	}
}

func TestUploadLimiter_Defaults(t *testing.T) {
	if got := NewUploadLimiter(0, 0).Status().MaxConcurrent; got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
}
