package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/photostudio/photostudio/internal/models"
)

func sampleRuns() []Run {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []Run{
		{ID: "b", Mode: "retouch", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(time.Minute + 2*time.Second), Files: []string{"x.jpg"}, Outputs: []string{"/processed/x.jpg"}},
		{ID: "a", Mode: "create-collage", StartedAt: base, FinishedAt: base.Add(time.Second), Files: []string{"1.jpg", "2.jpg"}, Error: "server error"},
	}
}

func TestNewRun(t *testing.T) {
	run := NewRun("smart-crop", []string{"a.jpg"})
	if len(run.ID) != 36 {
		t.Errorf("Expected a UUID, got %q", run.ID)
	}
	if run.StartedAt.IsZero() || !run.Succeeded() {
		t.Errorf("Unexpected new run %+v", run)
	}
	if NewRun("smart-crop", nil).ID == run.ID {
		t.Error("Expected unique run IDs")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, run := range sampleRuns() {
		if err := s.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, _ := s.List(ctx)
	if len(runs) != 2 || runs[0].ID != "a" || runs[1].ID != "b" {
		t.Errorf("Expected runs oldest first, got %v", runs)
	}

	if _, ok := s.Get("a"); !ok {
		t.Error("Expected run a to exist")
	}
	s.Delete("a")
	if _, ok := s.Get("a"); ok {
		t.Error("Expected run a to be deleted")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.yaml")
	s := NewFileStore(path)

	runs, err := s.List(ctx)
	if err != nil || len(runs) != 0 {
		t.Fatalf("Expected empty history for missing file, got %v %v", runs, err)
	}

	for _, run := range sampleRuns() {
		if err := s.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err = NewFileStore(path).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "a" || runs[0].Error != "server error" || len(runs[0].Files) != 2 {
		t.Errorf("Unexpected first run %+v", runs[0])
	}
	if runs[1].Outputs[0] != "/processed/x.jpg" {
		t.Errorf("Unexpected outputs %v", runs[1].Outputs)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	if err := os.WriteFile(path, []byte("runs: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).List(context.Background()); err == nil {
		t.Error("Expected error for corrupt history")
	}
}

func TestExportRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")
	if err := ExportRuns(path, sampleRuns()); err != nil {
		t.Fatalf("ExportRuns failed: %v", err)
	}

	records, err := ReadParquet[RunRecord](path)
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "b" || first.DurationMS != 2000 || !first.Succeeded || first.FileCount != 1 {
		t.Errorf("Unexpected first record %+v", first)
	}
	second := records[1]
	if second.Succeeded || second.Files != "1.jpg\n2.jpg" || second.StartedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("Unexpected second record %+v", second)
	}
}

func TestExportRemote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote.parquet")
	images := []models.RemoteImage{
		{ID: 7, Filename: "cat.png", Type: "remove_background", CreatedAt: "2024-05-01T10:00:00"},
	}
	if err := ExportRemote(path, images); err != nil {
		t.Fatalf("ExportRemote failed: %v", err)
	}

	got, err := ReadParquet[models.RemoteImage](path)
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	if len(got) != 1 || got[0] != images[0] {
		t.Errorf("Expected %v, got %v", images, got)
	}
}

// closeFailer buffers writes and fails on Close
type closeFailer struct {
	bytes.Buffer
	closed int
}

func (c *closeFailer) Close() error {
	c.closed++
	return errors.New("disk full")
}

func TestEncodeParquetReportsCloseError(t *testing.T) {
	w := &closeFailer{}
	err := encodeParquet(w, []RunRecord{ToRecord(sampleRuns()[0])})
	if err == nil || !strings.Contains(err.Error(), "failed to close parquet file") {
		t.Fatalf("Expected close error, got %v", err)
	}
	if w.closed != 1 {
		t.Errorf("Expected exactly one close, got %d", w.closed)
	}
	if w.Len() == 0 {
		t.Error("Expected rows to be written before close")
	}
}

func TestExportRunsCreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "runs.parquet")
	if err := ExportRuns(path, sampleRuns()); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("PHOTOSTUDIO_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PHOTOSTUDIO_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	defer s.Close()

	run := NewRun("retouch", []string{"a.jpg"})
	run.FinishedAt = run.StartedAt.Add(time.Second)
	if err := s.Record(ctx, run); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var got *Run
	for i := range runs {
		if runs[i].ID == run.ID {
			got = &runs[i]
		}
	}
	if got == nil {
		t.Fatalf("Expected run %s in %d listed runs", run.ID, len(runs))
	}
	if got.Mode != "retouch" || len(got.Files) != 1 {
		t.Errorf("Unexpected run %+v", got)
	}
}
