package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/guideway/guideway-backend/pkg/logger"
)

type stubSweeper struct {
	cutoff    time.Time
	cancelled int64
	err       error
}

func (s *stubSweeper) CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.cancelled, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestAutoCancelJobUsesGraceWindow(t *testing.T) {
	sweeper := &stubSweeper{cancelled: 3}
	job, err := NewAutoCancelJob(AutoCancelJobParams{
		Logger: testLogger(),
		Orders: sweeper,
	})
	if err != nil {
		t.Fatalf("job constructor failed: %v", err)
	}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	job.(*autoCancelJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	want := now.Add(-75 * time.Minute)
	if !sweeper.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v got %v", want, sweeper.cutoff)
	}
}

func TestAutoCancelJobPropagatesError(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	job, err := NewAutoCancelJob(AutoCancelJobParams{
		Logger: testLogger(),
		Orders: sweeper,
	})
	if err != nil {
		t.Fatalf("job constructor failed: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAutoCancelJobInterval(t *testing.T) {
	job, err := NewAutoCancelJob(AutoCancelJobParams{
		Logger: testLogger(),
		Orders: &stubSweeper{},
	})
	if err != nil {
		t.Fatalf("job constructor failed: %v", err)
	}
	if job.Interval() != 5*time.Minute {
		t.Fatalf("unexpected interval %v", job.Interval())
	}
}
