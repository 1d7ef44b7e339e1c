package mode

import (
	"fmt"
	"sort"
)

// Mode is a processing operation offered by the remote API
type Mode string

const (
	RemoveBackground    Mode = "remove-background"
	CreateCollage       Mode = "create-collage"
	AddFrame            Mode = "add-frame"
	Retouch             Mode = "retouch"
	PersonSwap          Mode = "person-swap"
	SmartCrop           Mode = "smart-crop"
	SocialMediaOptimize Mode = "social-media-optimize"
)

// All lists the known modes in menu order
var All = []Mode{
	RemoveBackground,
	CreateCollage,
	AddFrame,
	Retouch,
	PersonSwap,
	SmartCrop,
	SocialMediaOptimize,
}

// Family groups modes by how their uploads are dispatched
type Family int

const (
	// PerFile modes send one request per default-pool file, in order
	PerFile Family = iota
	// Aggregated modes send one request for the whole selection
	Aggregated
	// DualPool sends the person and background pools in one request
	DualPool
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	for _, known := range All {
		if m == known {
			return true
		}
	}
	return false
}

// Family returns how m dispatches uploads
func (m Mode) Family() Family {
	switch m {
	case CreateCollage, SocialMediaOptimize:
		return Aggregated
	case PersonSwap:
		return DualPool
	default:
		return PerFile
	}
}

// Endpoint is the API path serving m
func (m Mode) Endpoint() string {
	return "/api/" + string(m)
}

// Parse converts user input into a known Mode
func Parse(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// Collage types and how many images each needs before processing can start
var collageRequirements = map[string]int{
	"polaroid":  1,
	"5x15":      3,
	"5x5":       2,
	"magazine":  1,
	"passport":  1,
	"filmstrip": 1,
	"grid":      1,
	"vintage":   1,
	"universal": 1,
}

// RequiredCollageFiles returns the minimum image count for a collage type.
// Unknown types need a single image.
func RequiredCollageFiles(collageType string) int {
	if n, ok := collageRequirements[collageType]; ok {
		return n
	}
	return 1
}

// CollageTypes returns the known collage types sorted by name
func CollageTypes() []string {
	types := make([]string, 0, len(collageRequirements))
	for t := range collageRequirements {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
