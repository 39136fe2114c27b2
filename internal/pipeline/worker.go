package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/metrics"
)

// Worker runs one job at a time through conversion and generation.
type Worker struct {
	gen     *generate.Generator
	log     *slog.Logger
	stats   *Stats
	metrics *metrics.Metrics
}

func NewWorker(gen *generate.Generator, log *slog.Logger, stats *Stats, m *metrics.Metrics) *Worker {
	return &Worker{
		gen:     gen,
		log:     log,
		stats:   stats,
		metrics: m,
	}
}

// Process converts the job's upload and generates its output kind. The
// job ends either completed with a result or failed with an error.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind, "filename", job.Filename)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		job.Fail("queued", err)
		w.finish(log, job, start)
		return
	}

	// Phase 1: Convert
	job.SetStatus(StatusConverting, "converting")
	src, err := w.gen.Convert(job.Kind, bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("convert failed", "error", err)
		job.Fail("converting", err)
		w.finish(log, job, start)
		return
	}
	log.Debug("converted", "title", src.Title, "html_bytes", len(src.HTML))

	// Phase 2: Extract and render, reporting stages as they start.
	opts := job.Options()
	opts.OnStage = func(s generate.Stage) {
		job.SetStatus(JobStatus(s), string(s))
	}
	res, err := w.gen.Generate(job.Kind, src, opts)
	if err != nil {
		log.Error("generate failed", "error", err)
		job.Fail(job.Snapshot().Phase, err)
		w.finish(log, job, start)
		return
	}

	for _, wn := range res.Warnings {
		log.Warn("generation warning", "code", wn.Code, "message", wn.Message)
	}
	job.Complete(res)
	w.finish(log, job, start)
}

func (w *Worker) finish(log *slog.Logger, job *Job, start time.Time) {
	elapsed := time.Since(start)
	snap := job.Snapshot()
	failed := snap.Status == StatusFailed

	if w.stats != nil {
		w.stats.Record(string(job.Kind), elapsed, failed)
	}
	w.metrics.ObserveConversion(string(job.Kind), string(snap.Status), elapsed)
	log.Info("job finished", "status", snap.Status, "duration_ms", elapsed.Milliseconds(), "warnings", len(snap.Warnings))
}
