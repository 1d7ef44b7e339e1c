package upload

import (
	"log/slog"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
)

func newTask(m mode.Mode, form *api.Form, files ...models.FileEntry) Task {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return Task{Endpoint: m.Endpoint(), Form: form, Files: names}
}

// PerFileTask builds the request for one file of a per-file mode. frame is the
// frame pool and is only read for custom frames.
func PerFileTask(m mode.Mode, file models.FileEntry, frame []models.FileEntry, opts mode.Options) Task {
	form := api.NewForm().AddFile("file", file)
	sent := []models.FileEntry{file}

	switch m {
	case mode.RemoveBackground:
		method := opts.BgMethod
		if method == "" {
			method = "rembg"
		}
		form.AddField("method", method)
	case mode.AddFrame:
		if opts.FrameType == mode.FrameCustom && len(frame) > 0 {
			form.AddField("frame_type", mode.FrameCustom)
			form.AddFile("frame_file", frame[0])
			sent = append(sent, frame[0])
			break
		}
		if opts.FrameType == mode.FrameCustom {
			slog.Warn("Custom frame selected without a frame file, using preset style", "file", file.Name)
		}
		style := opts.FrameStyle
		if style == "" {
			style = "modern"
		}
		form.AddField("frame_type", mode.FramePreset)
		form.AddField("frame_style", style)
	case mode.SmartCrop:
		ratio := opts.AspectRatio
		if ratio == "" {
			ratio = "1:1"
		}
		form.AddField("aspect_ratio", ratio)
	}

	return newTask(m, form, sent...)
}

// CollageTask sends every selected file in one request
func CollageTask(files []models.FileEntry, opts mode.Options) Task {
	form := api.NewForm().
		AddField("collage_type", opts.CollageType).
		AddField("caption", opts.Caption)
	for _, f := range files {
		form.AddFile("files", f)
	}
	return newTask(mode.CreateCollage, form, files...)
}

// SocialMediaTask sends only the first selected file
func SocialMediaTask(file models.FileEntry) Task {
	form := api.NewForm().AddFile("file", file)
	return newTask(mode.SocialMediaOptimize, form, file)
}

// PersonSwapTask sends both pools in one request under separate field names
func PersonSwapTask(persons, backgrounds []models.FileEntry) Task {
	form := api.NewForm()
	for _, f := range persons {
		form.AddFile("person_files", f)
	}
	for _, f := range backgrounds {
		form.AddFile("background_files", f)
	}
	all := append(append([]models.FileEntry{}, persons...), backgrounds...)
	return newTask(mode.PersonSwap, form, all...)
}
