package form

import (
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
)

// PoolCounter reports pool sizes
type PoolCounter interface {
	Count(name models.PoolName) int
}

// RequiredFiles is the minimum default-pool size for m. Person swap reads
// its own pools and needs none.
func RequiredFiles(m mode.Mode, opts mode.Options) int {
	switch m {
	case mode.CreateCollage:
		return mode.RequiredCollageFiles(opts.CollageType)
	case mode.PersonSwap:
		return 0
	default:
		return 1
	}
}

// IsReady reports whether processing can start for the current selection
func IsReady(m mode.Mode, opts mode.Options, pools PoolCounter) bool {
	if m == mode.PersonSwap {
		return pools.Count(models.PoolPerson) > 0 && pools.Count(models.PoolBackground) > 0
	}
	return pools.Count(models.PoolDefault) >= RequiredFiles(m, opts)
}
