package pool

import (
	"strings"
	"sync"

	"github.com/photostudio/photostudio/internal/models"
)

// Reason explains why a file was not added to a pool
type Reason string

const (
	ReasonNotAnImage  Reason = "not-an-image"
	ReasonTooLarge    Reason = "too-large"
	ReasonUnknownPool Reason = "unknown-pool"
)

// Rejection is a file that failed validation. Rejections never abort the
// surrounding operation.
type Rejection struct {
	File   models.FileEntry
	Reason Reason
}

func (r Rejection) Error() string {
	return r.File.Name + ": " + string(r.Reason)
}

// Manager holds the ordered file selections of every pool.
// Every stored entry is an image no larger than models.MaxFileSize.
type Manager struct {
	pools map[models.PoolName][]models.FileEntry
	mu    sync.RWMutex
}

func New() *Manager {
	m := &Manager{
		pools: make(map[models.PoolName][]models.FileEntry, len(models.PoolNames)),
	}
	for _, name := range models.PoolNames {
		m.pools[name] = nil
	}
	return m
}

// Validate reports why a file cannot enter a pool, or "" when it can
func Validate(file models.FileEntry) Reason {
	if !strings.HasPrefix(file.MimeType, "image/") {
		return ReasonNotAnImage
	}
	if file.SizeBytes > models.MaxFileSize {
		return ReasonTooLarge
	}
	return ""
}

// AddFiles appends the valid files to the pool in submission order and
// returns the rejected ones. The frame pool keeps only the last accepted file.
func (m *Manager) AddFiles(name models.PoolName, files []models.FileEntry) ([]models.FileEntry, []Rejection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var accepted []models.FileEntry
	var rejected []Rejection

	current, ok := m.pools[name]
	if !ok {
		for _, f := range files {
			rejected = append(rejected, Rejection{File: f, Reason: ReasonUnknownPool})
		}
		return nil, rejected
	}

	for _, f := range files {
		if reason := Validate(f); reason != "" {
			rejected = append(rejected, Rejection{File: f, Reason: reason})
			continue
		}
		accepted = append(accepted, f)
	}

	if name == models.PoolFrame {
		if len(accepted) > 0 {
			m.pools[name] = []models.FileEntry{accepted[len(accepted)-1]}
		}
		return accepted, rejected
	}

	m.pools[name] = append(current, accepted...)
	return accepted, rejected
}

// RemoveFile removes the entry at index. Out of range indexes are ignored.
func (m *Manager) RemoveFile(name models.PoolName, index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.pools[name]
	if index < 0 || index >= len(entries) {
		return false
	}
	next := make([]models.FileEntry, 0, len(entries)-1)
	next = append(next, entries[:index]...)
	next = append(next, entries[index+1:]...)
	m.pools[name] = next
	return true
}

// Clear empties one pool
func (m *Manager) Clear(name models.PoolName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pools[name]; ok {
		m.pools[name] = nil
	}
}

// ClearAll empties every pool
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.pools {
		m.pools[name] = nil
	}
}

func (m *Manager) Count(name models.PoolName) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pools[name])
}

func (m *Manager) IsEmpty(name models.PoolName) bool {
	return m.Count(name) == 0
}

// Entries returns a copy of the pool contents
func (m *Manager) Entries(name models.PoolName) []models.FileEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.pools[name]
	result := make([]models.FileEntry, len(entries))
	copy(result, entries)
	return result
}

// First returns the first entry of the pool
func (m *Manager) First(name models.PoolName) (models.FileEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.pools[name]
	if len(entries) == 0 {
		return models.FileEntry{}, false
	}
	return entries[0], true
}

// SetFrameFile replaces the custom frame file
func (m *Manager) SetFrameFile(file models.FileEntry) *Rejection {
	if reason := Validate(file); reason != "" {
		return &Rejection{File: file, Reason: reason}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[models.PoolFrame] = []models.FileEntry{file}
	return nil
}
