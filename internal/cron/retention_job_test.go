package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
)

type fakeTrimmer struct {
	lastCap int
	deleted int64
	err     error
	called  int
}

func (f *fakeTrimmer) TrimToCap(ctx context.Context, cap int) (int64, error) {
	f.called++
	f.lastCap = cap
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

type fakeLister struct {
	residents []models.Resident
	err       error
}

func (f *fakeLister) List(ctx context.Context, nameFilter string) ([]models.Resident, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.residents, nil
}

func newRetentionJob(t *testing.T, trimmer *fakeTrimmer, lister *fakeLister, cap int) *retentionJob {
	t.Helper()
	jobIface, err := NewRetentionJob(RetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Movements: trimmer,
		Residents: lister,
		Cap:       cap,
	})
	if err != nil {
		t.Fatalf("NewRetentionJob: %v", err)
	}
	job, ok := jobIface.(*retentionJob)
	if !ok {
		t.Fatalf("expected retentionJob, got %T", jobIface)
	}
	return job
}

func TestRetentionJobTrimsToCap(t *testing.T) {
	trimmer := &fakeTrimmer{deleted: 12}
	job := newRetentionJob(t, trimmer, &fakeLister{}, 500)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if trimmer.called != 1 || trimmer.lastCap != 500 {
		t.Fatalf("expected one trim to 500, got called=%d cap=%d", trimmer.called, trimmer.lastCap)
	}
}

func TestRetentionJobDefaultsCap(t *testing.T) {
	trimmer := &fakeTrimmer{}
	job := newRetentionJob(t, trimmer, &fakeLister{}, 0)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if trimmer.lastCap != defaultMovementLogCap {
		t.Fatalf("expected default cap %d, got %d", defaultMovementLogCap, trimmer.lastCap)
	}
}

func TestRetentionJobCountsOverdueResidents(t *testing.T) {
	now := time.Date(2025, 9, 3, 20, 0, 0, 0, time.UTC)
	date := "2025-09-03"
	tod := "18:00"
	lister := &fakeLister{residents: []models.Resident{
		{Name: "Avery", IsCheckedIn: true},
		{Name: "Casey", IsCheckedIn: false, ExpectedReturnDate: &date, ExpectedReturnTime: &tod},
	}}
	job := newRetentionJob(t, &fakeTrimmer{}, lister, 100)
	job.now = func() time.Time { return now }

	count, err := job.countOverdue(context.Background())
	if err != nil {
		t.Fatalf("countOverdue: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 overdue resident, got %d", count)
	}
}

func TestRetentionJobPropagatesErrors(t *testing.T) {
	job := newRetentionJob(t, &fakeTrimmer{err: errors.New("boom")}, &fakeLister{}, 100)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected trim error")
	}

	job = newRetentionJob(t, &fakeTrimmer{}, &fakeLister{err: errors.New("boom")}, 100)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected list error")
	}
}
