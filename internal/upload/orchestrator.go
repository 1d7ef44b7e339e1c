package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/i18n"
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/results"
)

// ErrUnknownMode is returned before any request when no known mode is selected
var ErrUnknownMode = errors.New("unknown processing mode")

// ProcessingError wraps the error that aborted a run
type ProcessingError struct {
	Mode mode.Mode
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Mode, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Poster sends multipart requests to the processing API
type Poster interface {
	PostMultipart(ctx context.Context, endpoint string, form *api.Form) ([]byte, error)
}

// Pools gives read access to the file pools
type Pools interface {
	Entries(name models.PoolName) []models.FileEntry
}

// Task describes one outbound request of a run. Files names every upload in
// the form, in request order.
type Task struct {
	Endpoint string
	Form     *api.Form
	Files    []string
}

// Orchestrator runs one processing request set for the active mode.
// Per-file modes are dispatched strictly one after another.
type Orchestrator struct {
	client   Poster
	printer  *i18n.Printer
	progress *Progress
}

func New(client Poster, printer *i18n.Printer, progress *Progress) *Orchestrator {
	if progress == nil {
		progress = NewProgress(nil)
	}
	return &Orchestrator{client: client, printer: printer, progress: progress}
}

// Run uploads the pools for m and returns the server payload. Per-file
// failures are logged and dropped; failures of single-request modes abort
// the run with a *ProcessingError.
func (o *Orchestrator) Run(ctx context.Context, m mode.Mode, pools Pools, opts mode.Options) (results.Payload, error) {
	if !m.Valid() {
		return results.Payload{}, ErrUnknownMode
	}

	o.progress.Start()
	defer o.progress.Finish()

	var (
		payload results.Payload
		err     error
	)
	switch m.Family() {
	case mode.PerFile:
		payload, err = o.runPerFile(ctx, m, pools, opts)
	case mode.Aggregated:
		payload, err = o.runAggregated(ctx, m, pools, opts)
	case mode.DualPool:
		payload, err = o.runPersonSwap(ctx, pools)
	}
	if err != nil {
		return results.Payload{}, &ProcessingError{Mode: m, Err: err}
	}

	o.progress.Update(100, o.printer.Sprintf(i18n.MsgDone))
	return payload, nil
}

func (o *Orchestrator) runPerFile(ctx context.Context, m mode.Mode, pools Pools, opts mode.Options) (results.Payload, error) {
	files := pools.Entries(models.PoolDefault)
	frame := pools.Entries(models.PoolFrame)
	collected := make([]results.Result, 0, len(files))

	o.progress.Update(10, o.printer.Sprintf(i18n.MsgStarting))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return results.Payload{}, err
		}

		o.progress.Update(perFilePercent(i, len(files)), o.printer.Sprintf(stageMessage(m), i+1, len(files)))

		task := PerFileTask(m, file, frame, opts)
		body, err := o.client.PostMultipart(ctx, task.Endpoint, task.Form)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results.Payload{}, ctxErr
			}
			slog.Error("Error processing file", "mode", m, "index", i+1, "files", task.Files, "error", err)
			continue
		}

		var res results.Result
		if err := json.Unmarshal(body, &res); err != nil {
			slog.Error("Unreadable result for file", "mode", m, "index", i+1, "file", file.Name, "error", err)
			continue
		}
		slog.Debug("Received result", "index", i+1, "output_path", res.Path())
		collected = append(collected, res)
	}

	if len(files) == 1 && len(collected) == 1 {
		return results.SinglePayload(collected[0]), nil
	}
	return results.ListPayload(collected), nil
}

func (o *Orchestrator) runAggregated(ctx context.Context, m mode.Mode, pools Pools, opts mode.Options) (results.Payload, error) {
	o.progress.Update(20, o.printer.Sprintf(i18n.MsgPreparing))

	var task Task
	var stage string
	switch m {
	case mode.CreateCollage:
		task = CollageTask(pools.Entries(models.PoolDefault), opts)
		stage = i18n.MsgCreatingCollage
	case mode.SocialMediaOptimize:
		files := pools.Entries(models.PoolDefault)
		if len(files) == 0 {
			return results.Payload{}, fmt.Errorf("no image selected")
		}
		task = SocialMediaTask(files[0])
		stage = i18n.MsgOptimizing
	}

	o.progress.Update(60, o.printer.Sprintf(stage))

	slog.Debug("Sending request", "mode", m, "endpoint", task.Endpoint, "files", task.Files)
	body, err := o.client.PostMultipart(ctx, task.Endpoint, task.Form)
	if err != nil {
		return results.Payload{}, err
	}
	return results.Decode(body)
}

func (o *Orchestrator) runPersonSwap(ctx context.Context, pools Pools) (results.Payload, error) {
	o.progress.Update(20, o.printer.Sprintf(i18n.MsgPreparing))

	task := PersonSwapTask(pools.Entries(models.PoolPerson), pools.Entries(models.PoolBackground))

	o.progress.Update(60, o.printer.Sprintf(i18n.MsgSwapping))

	slog.Debug("Sending request", "mode", mode.PersonSwap, "endpoint", task.Endpoint, "files", task.Files)
	body, err := o.client.PostMultipart(ctx, task.Endpoint, task.Form)
	if err != nil {
		return results.Payload{}, err
	}

	var resp struct {
		Results *[]results.Result `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return results.Payload{}, fmt.Errorf("failed to decode person swap response: %w", err)
	}
	if resp.Results == nil {
		return results.Payload{}, fmt.Errorf("person swap response has no results")
	}
	return results.ListPayload(*resp.Results), nil
}

func stageMessage(m mode.Mode) string {
	switch m {
	case mode.RemoveBackground:
		return i18n.MsgRemovingBg
	case mode.AddFrame:
		return i18n.MsgAddingFrame
	case mode.SmartCrop:
		return i18n.MsgSmartCropping
	default:
		return i18n.MsgRetouching
	}
}
