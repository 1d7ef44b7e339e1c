package mode

import (
	"fmt"
	"sync"
)

// Option keys accepted by Selector.SetOption
const (
	OptBgMethod    = "bgMethod"
	OptCollageType = "collageType"
	OptCaption     = "caption"
	OptFrameType   = "frameType"
	OptFrameStyle  = "frameStyle"
	OptAspectRatio = "aspectRatio"
)

// Frame types
const (
	FramePreset = "preset"
	FrameCustom = "custom"
)

// Option groups shown for the active mode
const (
	GroupBackground = "background-options"
	GroupCollage    = "collage-options"
	GroupFrame      = "frame-options"
	GroupPersonSwap = "person-swap-options"
	GroupCrop       = "crop-options"
)

// Options is the mode-scoped option state
type Options struct {
	BgMethod    string `json:"bg_method" yaml:"bg_method"`
	CollageType string `json:"collage_type" yaml:"collage_type"`
	Caption     string `json:"caption" yaml:"caption"`
	FrameType   string `json:"frame_type" yaml:"frame_type"`
	FrameStyle  string `json:"frame_style" yaml:"frame_style"`
	AspectRatio string `json:"aspect_ratio" yaml:"aspect_ratio"`
}

// DefaultOptions mirrors the initial state of the form controls
func DefaultOptions() Options {
	return Options{
		BgMethod:    "rembg",
		CollageType: "polaroid",
		FrameType:   FramePreset,
		FrameStyle:  "modern",
		AspectRatio: "1:1",
	}
}

// Selector tracks the active mode and its options
type Selector struct {
	mode    Mode
	options Options
	mu      sync.RWMutex
}

func NewSelector() *Selector {
	return &Selector{options: DefaultOptions()}
}

// SetMode switches the active mode. File pools are not touched.
func (s *Selector) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Selector) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetOption stores an option value by key
func (s *Selector) SetOption(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case OptBgMethod:
		s.options.BgMethod = value
	case OptCollageType:
		s.options.CollageType = value
	case OptCaption:
		s.options.Caption = value
	case OptFrameType:
		if value != FramePreset && value != FrameCustom {
			return fmt.Errorf("invalid frame type %q", value)
		}
		s.options.FrameType = value
	case OptFrameStyle:
		s.options.FrameStyle = value
	case OptAspectRatio:
		s.options.AspectRatio = value
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

// Options returns a snapshot of the option state
func (s *Selector) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// Reset restores the initial option state and clears the mode
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ""
	s.options = DefaultOptions()
}

// VisibleGroups returns the option groups shown for the active mode
func (s *Selector) VisibleGroups() []string {
	switch s.Mode() {
	case RemoveBackground:
		return []string{GroupBackground}
	case CreateCollage:
		return []string{GroupCollage}
	case AddFrame:
		return []string{GroupFrame}
	case PersonSwap:
		return []string{GroupPersonSwap}
	case SmartCrop:
		return []string{GroupCrop}
	default:
		return nil
	}
}

// CaptionVisible is true only for polaroid collages
func (s *Selector) CaptionVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode == CreateCollage && s.options.CollageType == "polaroid"
}

// CustomFrameSlot reports whether the frame file slot replaces the preset style picker
func (s *Selector) CustomFrameSlot() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.FrameType == FrameCustom
}
