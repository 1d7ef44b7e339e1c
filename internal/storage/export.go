package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/photostudio/photostudio/internal/models"
)

// RunRecord is the flat Parquet row of a run
type RunRecord struct {
	ID         string `parquet:"id"`
	Mode       string `parquet:"mode"`
	StartedAt  string `parquet:"started_at"`
	DurationMS int64  `parquet:"duration_ms"`
	FileCount  int32  `parquet:"file_count"`
	Files      string `parquet:"files"`
	Outputs    string `parquet:"outputs"`
	Succeeded  bool   `parquet:"succeeded"`
	Error      string `parquet:"error"`
}

// ToRecord flattens a run for export
func ToRecord(run Run) RunRecord {
	var duration int64
	if !run.FinishedAt.IsZero() {
		duration = run.FinishedAt.Sub(run.StartedAt).Milliseconds()
	}
	return RunRecord{
		ID:         run.ID,
		Mode:       run.Mode,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: duration,
		FileCount:  int32(len(run.Files)),
		Files:      strings.Join(run.Files, "\n"),
		Outputs:    strings.Join(run.Outputs, "\n"),
		Succeeded:  run.Succeeded(),
		Error:      run.Error,
	}
}

// ExportRuns writes the ledger to a Parquet file
func ExportRuns(path string, runs []Run) error {
	records := make([]RunRecord, len(runs))
	for i, run := range runs {
		records[i] = ToRecord(run)
	}
	return writeParquet(path, records)
}

// ExportRemote writes the server-side image history to a Parquet file
func ExportRemote(path string, images []models.RemoteImage) error {
	return writeParquet(path, images)
}

func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	if err := encodeParquet(file, rows); err != nil {
		return err
	}
	slog.Debug("Wrote parquet file", "path", path, "rows", len(rows))
	return nil
}

// encodeParquet writes rows to w and closes it, reporting the close error
func encodeParquet[T any](w io.WriteCloser, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

// ReadParquet loads every row of a Parquet file
func ReadParquet[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	var records []T
	rows := make([]T, 128)
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return records, nil
}
