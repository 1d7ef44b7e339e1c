package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/auth"
	"github.com/photostudio/photostudio/internal/i18n"
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/pool"
	"github.com/photostudio/photostudio/internal/upload"
)

func photos(n int) []models.FileEntry {
	files := make([]models.FileEntry, n)
	for i := range files {
		files[i] = models.FileEntry{Name: fmt.Sprintf("p%d.jpg", i), SizeBytes: 10, MimeType: "image/jpeg", Contents: []byte("jpg")}
	}
	return files
}

func TestIsReady(t *testing.T) {
	collage := func(collageType string) mode.Options {
		opts := mode.DefaultOptions()
		opts.CollageType = collageType
		return opts
	}

	tests := []struct {
		name       string
		mode       mode.Mode
		opts       mode.Options
		def        int
		person     int
		background int
		expected   bool
	}{
		{name: "5x15 with 0", mode: mode.CreateCollage, opts: collage("5x15"), def: 0, expected: false},
		{name: "5x15 with 1", mode: mode.CreateCollage, opts: collage("5x15"), def: 1, expected: false},
		{name: "5x15 with 2", mode: mode.CreateCollage, opts: collage("5x15"), def: 2, expected: false},
		{name: "5x15 with 3", mode: mode.CreateCollage, opts: collage("5x15"), def: 3, expected: true},
		{name: "5x15 with 4", mode: mode.CreateCollage, opts: collage("5x15"), def: 4, expected: true},
		{name: "5x5 with 2", mode: mode.CreateCollage, opts: collage("5x5"), def: 2, expected: true},
		{name: "unknown collage with 1", mode: mode.CreateCollage, opts: collage("mosaic"), def: 1, expected: true},
		{name: "person swap without background", mode: mode.PersonSwap, person: 1, expected: false},
		{name: "person swap without person", mode: mode.PersonSwap, background: 1, def: 3, expected: false},
		{name: "person swap with both", mode: mode.PersonSwap, person: 1, background: 1, expected: true},
		{name: "retouch empty", mode: mode.Retouch, expected: false},
		{name: "retouch with one", mode: mode.Retouch, def: 1, expected: true},
		{name: "smart crop ignores person pool", mode: mode.SmartCrop, person: 2, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools := pool.New()
			pools.AddFiles(models.PoolDefault, photos(tt.def))
			pools.AddFiles(models.PoolPerson, photos(tt.person))
			pools.AddFiles(models.PoolBackground, photos(tt.background))

			if got := IsReady(tt.mode, tt.opts, pools); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFormRecomputesAfterEveryMutation(t *testing.T) {
	f := New(i18n.New("en"))
	var states []State
	f.OnChange(func(s State) { states = append(states, s) })

	f.SetMode(mode.CreateCollage)
	if err := f.SetOption(mode.OptCollageType, "5x15"); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	f.AddFiles(models.PoolDefault, photos(2))
	if states[len(states)-1].Ready {
		t.Error("Expected 5x15 collage with 2 files to be not ready")
	}
	f.AddFiles(models.PoolDefault, photos(1))
	if !states[len(states)-1].Ready {
		t.Error("Expected 5x15 collage with 3 files to be ready")
	}
	f.RemoveFile(models.PoolDefault, 0)
	if states[len(states)-1].Ready {
		t.Error("Expected readiness to drop after removal")
	}

	if len(states) != 5 {
		t.Errorf("Expected 5 recomputes, got %d", len(states))
	}

	before := len(states)
	f.RemoveFile(models.PoolDefault, 42)
	if len(states) != before {
		t.Error("Expected out of range removal to be a silent no-op")
	}
}

func TestFormModeSwitchKeepsPools(t *testing.T) {
	f := New(i18n.New("en"))
	f.SetMode(mode.Retouch)
	f.AddFiles(models.PoolDefault, photos(2))
	f.SetMode(mode.SmartCrop)

	state := f.State()
	if state.Counts[models.PoolDefault] != 2 {
		t.Errorf("Expected 2 files after mode switch, got %d", state.Counts[models.PoolDefault])
	}
	if len(state.VisibleGroups) != 1 || state.VisibleGroups[0] != mode.GroupCrop {
		t.Errorf("Expected crop options, got %v", state.VisibleGroups)
	}
}

func TestFormRejectionNotices(t *testing.T) {
	f := New(i18n.New("en"))
	var notices []models.Notice
	f.OnNotice(func(n models.Notice) { notices = append(notices, n) })

	accepted := f.AddFiles(models.PoolDefault, []models.FileEntry{
		{Name: "doc.pdf", SizeBytes: 1, MimeType: "application/pdf"},
		{Name: "ok.png", SizeBytes: 1, MimeType: "image/png"},
		{Name: "big.png", SizeBytes: models.MaxFileSize + 1, MimeType: "image/png"},
	})

	if len(accepted) != 1 {
		t.Errorf("Expected 1 accepted file, got %d", len(accepted))
	}
	if len(notices) != 2 {
		t.Fatalf("Expected 2 notices, got %v", notices)
	}
	for _, n := range notices {
		if n.Level != models.NoticeWarning {
			t.Errorf("Expected warning notice, got %s", n.Level)
		}
	}
	if notices[0].Message != "File doc.pdf is not an image" {
		t.Errorf("Unexpected message %q", notices[0].Message)
	}
	if !strings.Contains(notices[1].Message, "big.png") {
		t.Errorf("Expected message to name big.png, got %q", notices[1].Message)
	}
}

func TestFrameFileAndPresetExclusive(t *testing.T) {
	f := New(i18n.New("en"))
	f.SetMode(mode.AddFrame)

	if !f.SetFrameFile(models.FileEntry{Name: "frame.png", SizeBytes: 1, MimeType: "image/png"}) {
		t.Fatal("Expected frame file to be accepted")
	}
	state := f.State()
	if !state.CustomFrameSlot || state.Options.FrameType != mode.FrameCustom {
		t.Errorf("Expected custom frame after setting a frame file, got %+v", state.Options)
	}

	if err := f.SetOption(mode.OptFrameType, mode.FramePreset); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	if f.State().Counts[models.PoolFrame] != 0 {
		t.Error("Expected frame pool to be cleared when switching to preset")
	}
}

func TestFormReset(t *testing.T) {
	f := New(i18n.New("en"))
	f.SetMode(mode.CreateCollage)
	_ = f.SetOption(mode.OptCaption, "hello")
	f.AddFiles(models.PoolDefault, photos(2))
	f.AddFiles(models.PoolPerson, photos(1))

	f.Reset()

	state := f.State()
	for name, n := range state.Counts {
		if n != 0 {
			t.Errorf("Expected pool %s to be empty, got %d", name, n)
		}
	}
	if state.Mode != "" || state.Options != mode.DefaultOptions() {
		t.Errorf("Expected initial selection, got %s %+v", state.Mode, state.Options)
	}
}

type fakeView struct {
	events    []string
	progress  []models.ProgressState
	notices   []models.Notice
	artifacts []models.Artifact
	summary   string
}

func (v *fakeView) HideResults() { v.events = append(v.events, "hide-results") }

func (v *fakeView) ShowProgress(state models.ProgressState) {
	v.progress = append(v.progress, state)
}

func (v *fakeView) SetTriggerEnabled(enabled bool) {
	v.events = append(v.events, fmt.Sprintf("trigger=%v", enabled))
}

func (v *fakeView) ShowResults(artifacts []models.Artifact, summary string) {
	v.events = append(v.events, "show-results")
	v.artifacts = artifacts
	v.summary = summary
}

func (v *fakeView) Notify(n models.Notice) { v.notices = append(v.notices, n) }

func newController(t *testing.T, handler http.HandlerFunc) (*Form, *Controller, *fakeView, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	printer := i18n.New("en")
	f := New(printer)
	view := &fakeView{}
	c := NewController(f, api.NewClient(server.URL, auth.StaticToken("")), view, printer)
	return f, c, view, &calls
}

func TestControllerProcess(t *testing.T) {
	f, c, view, _ := newController(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "output_path": "/processed/out.png"}`))
	})

	f.SetMode(mode.Retouch)
	f.AddFiles(models.PoolDefault, photos(2))

	outcome, err := c.Process(context.Background())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(outcome.Artifacts) != 2 || len(view.artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %v", outcome.Artifacts)
	}
	if view.artifacts[1].Label != "photo 2" {
		t.Errorf("Expected label photo 2, got %s", view.artifacts[1].Label)
	}

	want := []string{"trigger=false", "hide-results", "show-results", "trigger=true"}
	if strings.Join(view.events, ",") != strings.Join(want, ",") {
		t.Errorf("Expected events %v, got %v", want, view.events)
	}
	if len(view.progress) == 0 || !view.progress[0].Visible || view.progress[len(view.progress)-1].Visible {
		t.Errorf("Expected progress shown then hidden, got %v", view.progress)
	}
}

func TestControllerNotReady(t *testing.T) {
	f, c, view, calls := newController(t, func(w http.ResponseWriter, r *http.Request) {})

	f.SetMode(mode.Retouch)
	if _, err := c.Process(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
	if len(view.notices) != 1 || view.notices[0].Level != models.NoticeWarning {
		t.Errorf("Expected one warning notice, got %v", view.notices)
	}
	if *calls != 0 {
		t.Errorf("Expected no requests, got %d", *calls)
	}
}

func TestControllerUnknownMode(t *testing.T) {
	f, c, view, calls := newController(t, func(w http.ResponseWriter, r *http.Request) {})

	f.SetMode("sharpen")
	f.AddFiles(models.PoolDefault, photos(1))

	_, err := c.Process(context.Background())
	if !errors.Is(err, upload.ErrUnknownMode) {
		t.Fatalf("Expected ErrUnknownMode, got %v", err)
	}
	if *calls != 0 {
		t.Errorf("Expected no requests, got %d", *calls)
	}
	if len(view.notices) != 1 || view.notices[0].Message != "Error while processing image: Unknown processing type" {
		t.Errorf("Unexpected notices %v", view.notices)
	}
	if view.events[len(view.events)-1] != "trigger=true" {
		t.Errorf("Expected trigger re-enabled, got %v", view.events)
	}
}

func TestControllerServerErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "detail", body: `{"detail": "Collage failed"}`, expected: "Error while processing image: Collage failed"},
		{name: "no detail", body: `<html>oops</html>`, expected: "Error while processing image: Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, c, view, _ := newController(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			})

			f.SetMode(mode.CreateCollage)
			f.AddFiles(models.PoolDefault, photos(1))

			if _, err := c.Process(context.Background()); err == nil {
				t.Fatal("Expected error")
			}
			if len(view.notices) != 1 || view.notices[0].Level != models.NoticeDanger {
				t.Fatalf("Expected one danger notice, got %v", view.notices)
			}
			if view.notices[0].Message != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, view.notices[0].Message)
			}
			if view.events[len(view.events)-1] != "trigger=true" {
				t.Errorf("Expected trigger re-enabled, got %v", view.events)
			}
			if last := view.progress[len(view.progress)-1]; last.Visible {
				t.Error("Expected progress hidden after failure")
			}
		})
	}
}

func TestControllerReset(t *testing.T) {
	f, c, view, _ := newController(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output_path": "/processed/out.png"}`))
	})
	f.SetMode(mode.Retouch)
	f.AddFiles(models.PoolDefault, photos(1))
	if _, err := c.Process(context.Background()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	c.Reset()

	if artifacts, _ := c.Renderer().Artifacts(); len(artifacts) != 0 {
		t.Errorf("Expected artifacts discarded, got %v", artifacts)
	}
	if f.Pools().Count(models.PoolDefault) != 0 {
		t.Error("Expected pools cleared")
	}
	if view.events[len(view.events)-1] != "hide-results" {
		t.Errorf("Expected results hidden, got %v", view.events)
	}
}
