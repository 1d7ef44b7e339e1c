package form

import (
	"log/slog"
	"sync"

	"github.com/photostudio/photostudio/internal/i18n"
	"github.com/photostudio/photostudio/internal/mode"
	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/pool"
)

// State is the derived form state recomputed after every mutation
type State struct {
	Mode            mode.Mode
	Options         mode.Options
	Ready           bool
	VisibleGroups   []string
	CaptionVisible  bool
	CustomFrameSlot bool
	Counts          map[models.PoolName]int
}

// Listener receives the recomputed state after each mutation
type Listener func(State)

// Notifier receives transient user notices
type Notifier func(models.Notice)

// Form owns the file pools and the mode selection
type Form struct {
	pools    *pool.Manager
	selector *mode.Selector
	printer  *i18n.Printer

	listener Listener
	notifier Notifier
	mu       sync.Mutex
}

func New(printer *i18n.Printer) *Form {
	return &Form{
		pools:    pool.New(),
		selector: mode.NewSelector(),
		printer:  printer,
	}
}

// OnChange registers the state listener
func (f *Form) OnChange(listener Listener) {
	f.mu.Lock()
	f.listener = listener
	f.mu.Unlock()
}

// OnNotice registers the notice sink
func (f *Form) OnNotice(notifier Notifier) {
	f.mu.Lock()
	f.notifier = notifier
	f.mu.Unlock()
}

func (f *Form) Pools() *pool.Manager {
	return f.pools
}

func (f *Form) Mode() mode.Mode {
	return f.selector.Mode()
}

func (f *Form) Options() mode.Options {
	return f.selector.Options()
}

// AddFiles validates and appends files to a pool. Each rejected file produces
// one warning notice; the accepted ones are returned.
func (f *Form) AddFiles(name models.PoolName, files []models.FileEntry) []models.FileEntry {
	accepted, rejected := f.pools.AddFiles(name, files)
	for _, r := range rejected {
		f.reject(r)
	}
	if name == models.PoolFrame && len(accepted) > 0 {
		f.useCustomFrame()
	}
	f.changed()
	return accepted
}

// RemoveFile drops the entry at index. Out of range indexes are ignored.
func (f *Form) RemoveFile(name models.PoolName, index int) {
	if f.pools.RemoveFile(name, index) {
		f.changed()
	}
}

// SetFrameFile stores the custom frame and switches the frame type to custom
func (f *Form) SetFrameFile(file models.FileEntry) bool {
	if rej := f.pools.SetFrameFile(file); rej != nil {
		f.reject(*rej)
		return false
	}
	f.useCustomFrame()
	f.changed()
	return true
}

// SetMode switches the active mode. Pools are kept.
func (f *Form) SetMode(m mode.Mode) {
	f.selector.SetMode(m)
	f.changed()
}

// SetOption stores a mode option. Selecting the preset frame type drops the
// custom frame file.
func (f *Form) SetOption(key, value string) error {
	if err := f.selector.SetOption(key, value); err != nil {
		return err
	}
	if key == mode.OptFrameType && value == mode.FramePreset {
		f.pools.Clear(models.PoolFrame)
	}
	f.changed()
	return nil
}

// Ready reports whether processing can be triggered
func (f *Form) Ready() bool {
	return IsReady(f.selector.Mode(), f.selector.Options(), f.pools)
}

// State computes the derived form state
func (f *Form) State() State {
	counts := make(map[models.PoolName]int, len(models.PoolNames))
	for _, name := range models.PoolNames {
		counts[name] = f.pools.Count(name)
	}
	return State{
		Mode:            f.selector.Mode(),
		Options:         f.selector.Options(),
		Ready:           f.Ready(),
		VisibleGroups:   f.selector.VisibleGroups(),
		CaptionVisible:  f.selector.CaptionVisible(),
		CustomFrameSlot: f.selector.CustomFrameSlot(),
		Counts:          counts,
	}
}

// Reset clears every pool and restores the initial mode options
func (f *Form) Reset() {
	f.pools.ClearAll()
	f.selector.Reset()
	f.changed()
}

// Notify forwards a notice to the registered sink
func (f *Form) Notify(level models.NoticeLevel, message string) {
	f.mu.Lock()
	notifier := f.notifier
	f.mu.Unlock()

	if notifier != nil {
		notifier(models.Notice{Level: level, Message: message})
	}
}

func (f *Form) useCustomFrame() {
	if err := f.selector.SetOption(mode.OptFrameType, mode.FrameCustom); err != nil {
		slog.Error("Failed to switch to custom frame", "error", err)
	}
}

func (f *Form) reject(r pool.Rejection) {
	switch r.Reason {
	case pool.ReasonNotAnImage:
		f.Notify(models.NoticeWarning, f.printer.Sprintf(i18n.MsgNotAnImage, r.File.Name))
	case pool.ReasonTooLarge:
		f.Notify(models.NoticeWarning, f.printer.Sprintf(i18n.MsgTooLarge, r.File.Name))
	default:
		slog.Warn("File rejected", "file", r.File.Name, "reason", r.Reason)
	}
}

func (f *Form) changed() {
	f.mu.Lock()
	listener := f.listener
	f.mu.Unlock()

	if listener != nil {
		listener(f.State())
	}
}
