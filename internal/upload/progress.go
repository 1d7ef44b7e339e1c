package upload

import (
	"sync"

	"github.com/photostudio/photostudio/internal/models"
)

// ProgressFunc receives every progress change
type ProgressFunc func(state models.ProgressState)

// Progress is the single progress indicator of a run. Updates overwrite the
// previous state; within one run the percentage never goes down and stays
// within [0, 100].
type Progress struct {
	state    models.ProgressState
	listener ProgressFunc
	mu       sync.Mutex
}

func NewProgress(listener ProgressFunc) *Progress {
	return &Progress{listener: listener}
}

// Start shows the indicator at 0%
func (p *Progress) Start() {
	p.set(models.ProgressState{Visible: true})
}

// Update moves the indicator. Values are clamped to [0, 100] and to the
// current percentage.
func (p *Progress) Update(percent int, message string) {
	p.mu.Lock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent < p.state.Percent {
		percent = p.state.Percent
	}
	state := models.ProgressState{Visible: true, Percent: percent, Message: message}
	p.mu.Unlock()

	p.set(state)
}

// Finish hides the indicator
func (p *Progress) Finish() {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	state.Visible = false
	p.set(state)
}

// State returns the current progress
func (p *Progress) State() models.ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Progress) set(state models.ProgressState) {
	p.mu.Lock()
	p.state = state
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(state)
	}
}

// perFilePercent spreads per-file progress linearly over 20..80: the update
// issued before dispatching file i (0-based) of n reports 20 + 60*(i+1)/n.
func perFilePercent(i, n int) int {
	if n <= 0 {
		return 20
	}
	return 20 + 60*(i+1)/n
}
