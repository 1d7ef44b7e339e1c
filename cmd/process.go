package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/caption"
	"github.com/photostudio/photostudio/internal/config"
	"github.com/photostudio/photostudio/internal/form"
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/pool"
	"github.com/photostudio/photostudio/internal/results"
	"github.com/photostudio/photostudio/internal/storage"
)

type processOptions struct {
	mode           string
	person         []string
	background     []string
	bgMethod       string
	collageType    string
	caption        string
	suggestCaption bool
	frameType      string
	frameStyle     string
	frameFile      string
	aspectRatio    string
	outputDir      string
	format         string
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{}
	defaults := mode.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "process [files or directories...]",
		Short: "Process images with one of the studio modes",
		Long: `Uploads the selected images to the processing server and prints the results.

Per-file modes (remove-background, add-frame, retouch, smart-crop) send one
request per image, in order; a failed image is reported and skipped.
create-collage and social-media-optimize send a single request.
person-swap uses the --person and --background images instead of the arguments.`,
		Example: `  # Remove the background of every image in a directory
  photostudio process --mode remove-background ./photos

  # 5x15 strip from three photos, saving the result locally
  photostudio process --mode create-collage --collage-type 5x15 a.jpg b.jpg c.jpg --output-dir out

  # Put two people on a beach
  photostudio process --mode person-swap --person me.jpg --person you.jpg --background beach.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), root, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Processing mode (see 'photostudio modes')")
	cmd.Flags().StringSliceVar(&opts.person, "person", nil, "Person image for person-swap (repeatable)")
	cmd.Flags().StringSliceVar(&opts.background, "background", nil, "Background image for person-swap (repeatable)")
	cmd.Flags().StringVar(&opts.bgMethod, "bg-method", defaults.BgMethod, "Background removal method")
	cmd.Flags().StringVar(&opts.collageType, "collage-type", defaults.CollageType, "Collage type")
	cmd.Flags().StringVar(&opts.caption, "caption", "", "Caption for polaroid collages")
	cmd.Flags().BoolVar(&opts.suggestCaption, "suggest-caption", false, "Ask the caption model for a polaroid caption when none is given")
	cmd.Flags().StringVar(&opts.frameType, "frame-type", defaults.FrameType, "Frame type: preset or custom")
	cmd.Flags().StringVar(&opts.frameStyle, "frame-style", defaults.FrameStyle, "Preset frame style")
	cmd.Flags().StringVar(&opts.frameFile, "frame-file", "", "Custom frame image (switches to a custom frame)")
	cmd.Flags().StringVar(&opts.aspectRatio, "aspect-ratio", defaults.AspectRatio, "Aspect ratio for smart-crop")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Download results into this directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or yaml")

	if err := cmd.MarkFlagRequired("mode"); err != nil {
		slog.Error("Unable to mark mode flag required", "err", err)
	}

	return cmd
}

func runProcess(ctx context.Context, root *rootOptions, opts *processOptions, args []string, stdout, stderr io.Writer) error {
	m, err := mode.Parse(opts.mode)
	if err != nil {
		return err
	}

	client, _, err := root.client()
	if err != nil {
		return err
	}
	printer := root.printer()

	f := form.New(printer)
	view := newTerminalView(stderr)
	controller := form.NewController(f, client, view, printer)
	f.OnChange(func(s form.State) {
		slog.Debug("Form updated", "mode", s.Mode, "ready", s.Ready, "default", s.Counts[models.PoolDefault],
			"person", s.Counts[models.PoolPerson], "background", s.Counts[models.PoolBackground])
	})

	f.SetMode(m)
	if err := applyOptions(f, opts); err != nil {
		return err
	}
	if err := fillPools(f, opts, args); err != nil {
		return err
	}

	if opts.suggestCaption {
		suggestCaption(ctx, root.cfg, f)
	}

	store, err := openStore(ctx, root.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	run := storage.NewRun(string(m), fileNames(f))
	outcome, procErr := controller.Process(ctx)
	run.FinishedAt = time.Now().UTC()
	if procErr != nil {
		run.Error = procErr.Error()
	}

	if procErr == nil && opts.outputDir != "" {
		download(ctx, client, outcome.Artifacts, opts.outputDir)
	}
	for _, a := range outcome.Artifacts {
		run.Outputs = append(run.Outputs, a.OutputPath)
	}

	if err := store.Record(ctx, run); err != nil {
		slog.Warn("Could not record run", "run", run.ID, "error", err)
	}

	if procErr != nil {
		return procErr
	}

	return results.Write(stdout, results.Report{
		RunID:     run.ID,
		Mode:      string(m),
		Artifacts: outcome.Artifacts,
		Summary:   outcome.Summary,
	}, opts.format)
}

func applyOptions(f *form.Form, opts *processOptions) error {
	values := []struct{ key, value string }{
		{mode.OptBgMethod, opts.bgMethod},
		{mode.OptCollageType, opts.collageType},
		{mode.OptCaption, opts.caption},
		{mode.OptFrameType, opts.frameType},
		{mode.OptFrameStyle, opts.frameStyle},
		{mode.OptAspectRatio, opts.aspectRatio},
	}
	for _, v := range values {
		if err := f.SetOption(v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}

func fillPools(f *form.Form, opts *processOptions, args []string) error {
	sources := []struct {
		pool  models.PoolName
		paths []string
	}{
		{models.PoolDefault, args},
		{models.PoolPerson, opts.person},
		{models.PoolBackground, opts.background},
	}
	for _, src := range sources {
		if len(src.paths) == 0 {
			continue
		}
		entries, err := pool.LoadPaths(src.paths)
		if err != nil {
			return err
		}
		f.AddFiles(src.pool, entries)
	}

	if opts.frameFile != "" {
		entries, err := pool.LoadPaths([]string{opts.frameFile})
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			f.SetFrameFile(entries[0])
		}
	}
	return nil
}

func suggestCaption(ctx context.Context, cfg *config.Config, f *form.Form) {
	state := f.State()
	if !state.CaptionVisible || state.Options.Caption != "" {
		return
	}

	generator, err := caption.NewGenerator(caption.Settings{
		Provider:    cfg.CaptionProvider,
		GeminiKey:   cfg.GeminiKey,
		GeminiModel: cfg.GeminiModel,
		OllamaURL:   cfg.OllamaURL,
		OllamaModel: cfg.OllamaModel,
		OpenAIKey:   cfg.OpenAIKey,
		OpenAIModel: cfg.OpenAIModel,
	})
	if err != nil {
		slog.Warn("Caption suggestion unavailable", "error", err)
		return
	}
	suggester := caption.NewSuggester(generator, cfg.Lang)
	text, err := suggester.Suggest(ctx, f.Pools().Entries(models.PoolDefault))
	if err != nil {
		slog.Warn("Caption suggestion failed, continuing without caption", "error", err)
		return
	}
	slog.Info("Using suggested caption", "caption", text)
	if err := f.SetOption(mode.OptCaption, text); err != nil {
		slog.Error("Unable to set caption", "error", err)
	}
}

func fileNames(f *form.Form) []string {
	var names []string
	for _, name := range models.PoolNames {
		for _, entry := range f.Pools().Entries(name) {
			names = append(names, entry.Name)
		}
	}
	return names
}

func download(ctx context.Context, client *api.Client, artifacts []models.Artifact, dir string) {
	for i := range artifacts {
		path, err := client.Download(ctx, artifacts[i].OutputPath, dir, i)
		if err != nil {
			slog.Error("Failed to download result", "output_path", artifacts[i].OutputPath, "error", err)
			continue
		}
		artifacts[i].LocalPath = path
	}
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		return store, nil
	}
	if cfg.HistoryFile == "" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewFileStore(cfg.HistoryFile), nil
}

// terminalView prints progress and notices as plain lines
type terminalView struct {
	w       io.Writer
	percent int
}

func newTerminalView(w io.Writer) *terminalView {
	return &terminalView{w: w, percent: -1}
}

func (v *terminalView) HideResults() {}

func (v *terminalView) ShowProgress(state models.ProgressState) {
	if !state.Visible {
		v.percent = -1
		return
	}
	if state.Message == "" || state.Percent == v.percent {
		return
	}
	v.percent = state.Percent
	fmt.Fprintf(v.w, "[%3d%%] %s\n", state.Percent, state.Message)
}

func (v *terminalView) SetTriggerEnabled(enabled bool) {
	slog.Debug("Trigger state changed", "enabled", enabled)
}

func (v *terminalView) ShowResults(artifacts []models.Artifact, summary string) {
	slog.Debug("Results ready", "artifacts", len(artifacts), "summary", summary)
}

func (v *terminalView) Notify(n models.Notice) {
	fmt.Fprintf(v.w, "%s: %s\n", strings.ToUpper(string(n.Level)), n.Message)
}
