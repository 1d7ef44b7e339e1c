package form

import (
	"context"
	"errors"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/i18n"
	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/results"
	"github.com/photostudio/photostudio/internal/upload"
)

// ErrNotReady is returned when processing is triggered without a mode or files
var ErrNotReady = errors.New("form is not ready for processing")

// View is the output surface of a run
type View interface {
	HideResults()
	ShowProgress(state models.ProgressState)
	SetTriggerEnabled(enabled bool)
	ShowResults(artifacts []models.Artifact, summary string)
	Notify(notice models.Notice)
}

// Outcome is the normalized result of one run
type Outcome struct {
	Payload   results.Payload
	Artifacts []models.Artifact
	Summary   string
}

// Controller handles the processing trigger
type Controller struct {
	form         *Form
	view         View
	printer      *i18n.Printer
	orchestrator *upload.Orchestrator
	renderer     *results.Renderer
}

func NewController(form *Form, client upload.Poster, view View, printer *i18n.Printer) *Controller {
	form.OnNotice(view.Notify)
	progress := upload.NewProgress(view.ShowProgress)
	return &Controller{
		form:         form,
		view:         view,
		printer:      printer,
		orchestrator: upload.New(client, printer, progress),
		renderer:     results.NewRenderer(printer),
	}
}

// Renderer exposes the last rendered artifacts
func (c *Controller) Renderer() *results.Renderer {
	return c.renderer
}

// Process runs the active mode over the pools. The trigger is disabled for
// the duration of the run and always re-enabled.
func (c *Controller) Process(ctx context.Context) (Outcome, error) {
	m := c.form.Mode()
	if m == "" || !c.form.Ready() {
		c.form.Notify(models.NoticeWarning, c.printer.Sprintf(i18n.MsgPickFilesFirst))
		return Outcome{}, ErrNotReady
	}

	c.view.SetTriggerEnabled(false)
	defer c.view.SetTriggerEnabled(true)

	c.view.HideResults()
	c.renderer.Reset()

	payload, err := c.orchestrator.Run(ctx, m, c.form.Pools(), c.form.Options())
	if err != nil {
		c.form.Notify(models.NoticeDanger, c.printer.Sprintf(i18n.MsgProcessingError, c.errorMessage(err)))
		return Outcome{}, err
	}

	artifacts, summary := c.renderer.Render(payload)
	c.view.ShowResults(artifacts, summary)
	return Outcome{Payload: payload, Artifacts: artifacts, Summary: summary}, nil
}

// Reset clears the form and the rendered results
func (c *Controller) Reset() {
	c.form.Reset()
	c.renderer.Reset()
	c.view.HideResults()
}

func (c *Controller) errorMessage(err error) string {
	if errors.Is(err, upload.ErrUnknownMode) {
		return c.printer.Sprintf(i18n.MsgUnknownMode)
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail == "" {
			return c.printer.Sprintf(i18n.MsgServerError)
		}
		return apiErr.Detail
	}
	var procErr *upload.ProcessingError
	if errors.As(err, &procErr) {
		return procErr.Err.Error()
	}
	return err.Error()
}
