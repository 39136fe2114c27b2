package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/contentgen/internal/config"
	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/metrics"
	"github.com/dgallion1/contentgen/internal/parser"
)

func testOrchestrator(workers, queue int) *Orchestrator {
	cfg := config.Config{WorkerCount: workers, MaxQueueSize: queue, JobTTL: time.Hour}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, generate.New(), metrics.New(), log)
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := job.Snapshot(); snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_SubmitCompletes(t *testing.T) {
	o := testOrchestrator(2, 10)
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(generate.KindBlog, "ladders.txt", []byte("Why ladders matter\n\nAlways face the ladder."), generate.Options{})
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Title != "Why ladders matter" {
		t.Errorf("expected title from first paragraph, got %q", snap.Title)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable by ID")
	}
	res := job.Result()
	if res == nil || res.Sections[generate.SectionBlog] == "" {
		t.Fatalf("expected rendered blog section, got %+v", res)
	}
	if st := o.Stats().Snapshot(); st.Count != 1 || st.ByKind["blog"].Count != 1 {
		t.Errorf("expected one recorded blog conversion, got %+v", st)
	}
}

func TestOrchestrator_UnsupportedFileFails(t *testing.T) {
	o := testOrchestrator(1, 10)
	job := NewJob(generate.KindBlog, "deck.pptx", []byte("x"), generate.Options{})
	o.Run(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "converting" {
		t.Fatalf("expected failure while converting, got %q/%q", snap.Status, snap.Phase)
	}
	if !errors.Is(job.Err(), parser.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", job.Err())
	}
	if st := o.Stats().Snapshot(); st.Failed != 1 {
		t.Errorf("expected one failed sample, got %+v", st)
	}
}

func TestOrchestrator_RunReportsStages(t *testing.T) {
	o := testOrchestrator(1, 10)
	job := NewJob(generate.KindCourse, "empty.txt", []byte(""), generate.Options{CourseTitle: "Forklift"})
	o.Run(context.Background(), job)

	if !errors.Is(job.Err(), generate.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", job.Err())
	}

	job = NewJob(generate.KindGlossary, "terms.csv", []byte("Term,Definition\nMast,The upright\n"), generate.Options{})
	o.Run(context.Background(), job)
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "done" {
		t.Fatalf("expected completed, got %q/%q (errors %v)", snap.Status, snap.Phase, snap.Errors)
	}
	if o.GetJob(job.ID) == nil {
		t.Error("expected synchronous job to be stored")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// No workers started, so the queue never drains.
	o := testOrchestrator(1, 1)

	first := NewJob(generate.KindBlog, "a.txt", []byte("a"), generate.Options{})
	if err := o.Submit(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}

	second := NewJob(generate.KindBlog, "b.txt", []byte("b"), generate.Options{})
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected queue_full failure, got %q/%q", snap.Status, snap.Phase)
	}
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	// No workers started, so the job is still queued at shutdown.
	o := testOrchestrator(1, 4)

	queued := NewJob(generate.KindBlog, "a.txt", []byte("a"), generate.Options{})
	if err := o.Submit(queued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Stop()
	o.Stop()

	if snap := queued.Snapshot(); snap.Status != StatusFailed || snap.Phase != "shutdown" {
		t.Errorf("expected shutdown failure for queued job, got %q/%q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 0 {
		t.Errorf("expected empty queue after stop, got %d", o.QueueDepth())
	}

	late := NewJob(generate.KindBlog, "b.txt", []byte("b"), generate.Options{})
	if err := o.Submit(late); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after stop, got %v", err)
	}
	if snap := late.Snapshot(); snap.Status != StatusFailed || snap.Phase != "shutdown" {
		t.Errorf("expected shutdown failure for late job, got %q/%q", snap.Status, snap.Phase)
	}
}

func TestWorker_CancelledContext(t *testing.T) {
	o := testOrchestrator(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob(generate.KindBlog, "a.txt", []byte("Hello there"), generate.Options{})
	o.Run(ctx, job)
	if !errors.Is(job.Err(), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", job.Err())
	}
}
