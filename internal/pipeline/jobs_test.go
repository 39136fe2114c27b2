package pipeline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/contentgen/internal/generate"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob(generate.KindCourse, "forklift.docx", []byte("data"), generate.Options{CourseTitle: "Forklift Safety"})
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if len(job.ID) != 26 {
		t.Errorf("expected 26-char ULID, got %q", job.ID)
	}
	if job.Title != "Forklift Safety" {
		t.Errorf("expected title from course options, got %q", job.Title)
	}
	if job.ContentHash != ContentHashHex([]byte("data")) {
		t.Errorf("unexpected content hash %q", job.ContentHash)
	}
	if string(job.FileData()) != "data" {
		t.Errorf("expected file data to be held until processing")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusConverting, "converting"},
		{StatusExtracting, "extracting"},
		{StatusRendering, "rendering"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
		if job.Status.Done() {
			t.Errorf("expected %q to be non-terminal", tr.status)
		}
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob(generate.KindBlog, "post.txt", []byte("x"), generate.Options{})
	res := &generate.Result{
		Kind:     generate.KindBlog,
		Title:    "Ladder Safety",
		Warnings: []generate.Warning{{Code: "no_faq", Message: "no FAQ section found"}},
	}
	job.Complete(res)

	if job.Result() != res {
		t.Error("expected result to be stored")
	}
	if job.FileData() != nil {
		t.Error("expected file data released after completion")
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || !snap.Status.Done() {
		t.Errorf("expected completed, got %q", snap.Status)
	}
	if snap.Title != "Ladder Safety" {
		t.Errorf("expected title from result, got %q", snap.Title)
	}
	if len(snap.Warnings) != 1 || snap.Warnings[0].Code != "no_faq" {
		t.Errorf("expected warnings in snapshot, got %+v", snap.Warnings)
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob(generate.KindBlog, "post.txt", []byte("x"), generate.Options{})
	cause := errors.New("boom")
	job.Fail("converting", cause)

	if !errors.Is(job.Err(), cause) {
		t.Errorf("expected stored error, got %v", job.Err())
	}
	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "converting" {
		t.Errorf("expected failed during converting, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "boom" {
		t.Errorf("expected error message in snapshot, got %v", snap.Errors)
	}
	if job.Result() != nil {
		t.Error("expected no result for a failed job")
	}
}

func TestJob_SnapshotSlicesNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Errors == nil || snap.Warnings == nil {
		t.Error("expected non-nil errors and warnings in snapshot")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", Status: StatusCompleted, UpdatedAt: time.Now()}
	running := &Job{ID: "running", Status: StatusRendering, UpdatedAt: time.Now()}
	store.Put(expired)
	store.Put(running)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", Status: StatusFailed, UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("running") == nil {
		t.Error("expected an unfinished job to survive cleanup")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 jobs left, got %d", store.Len())
	}
}

func TestGenerateULID(t *testing.T) {
	seen := map[string]bool{}
	prev := ""
	for range 100 {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("expected 26 chars, got %q", id)
		}
		if strings.Trim(id, crockford) != "" {
			t.Fatalf("unexpected characters in %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		if id[:10] < prev {
			t.Fatalf("timestamp prefix went backwards: %q < %q", id[:10], prev)
		}
		seen[id] = true
		prev = id[:10]
	}
}

func TestEncodeULID(t *testing.T) {
	var b [16]byte
	if got := encodeULID(b); got != strings.Repeat("0", 26) {
		t.Errorf("expected all zeros, got %q", got)
	}
	for i := range b {
		b[i] = 0xFF
	}
	if got := encodeULID(b); got != "7"+strings.Repeat("Z", 25) {
		t.Errorf("expected max ULID, got %q", got)
	}
}
