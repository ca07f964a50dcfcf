// Package viewmodel projects galleryindex.LoadResult onto presentation
// fields and runs the timer/focus/backoff poller described in §4.7. It
// owns the last-known-good cache; the pure loader never does.
package viewmodel

import (
	"sync"
	"time"

	"github.com/codecomfy/nextgallery/internal/filereader"
	"github.com/codecomfy/nextgallery/internal/galleryindex"
)

// ViewModel holds the current presentation state for one workspace. All
// mutation happens through Refresh, FocusGained, PollTick and
// ResumePolling; reads via Snapshot are safe from any goroutine.
type ViewModel struct {
	mu sync.RWMutex

	workspaceRoot string
	reader        filereader.Reader

	state  galleryindex.State
	banner galleryindex.Banner

	lastKnownGood    []galleryindex.JobRow
	lastModTime      time.Time
	failureCount     int
	backoffThreshold int
}

// Snapshot is an immutable copy of the presentation state, safe to hand
// to a rendering layer.
type Snapshot struct {
	State  galleryindex.State
	Banner galleryindex.Banner
}

// New creates a ViewModel in the Loading state for workspaceRoot. Callers
// should call Refresh once before presenting anything. backoffThreshold is
// the consecutive-warning count at which timer polling suspends itself; a
// value <= 0 falls back to defaultBackoffThreshold.
func New(workspaceRoot string, reader filereader.Reader, backoffThreshold int) *ViewModel {
	if backoffThreshold <= 0 {
		backoffThreshold = defaultBackoffThreshold
	}
	return &ViewModel{
		workspaceRoot:    workspaceRoot,
		reader:           reader,
		state:            galleryindex.State{Tag: galleryindex.StateLoading},
		backoffThreshold: backoffThreshold,
	}
}

// Snapshot returns the current presentation state.
func (v *ViewModel) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot{State: v.state, Banner: v.banner}
}

// Refresh unconditionally re-runs the loader and applies the result. Used
// for process start, focus-gained, and explicit user requests, per §4.7.
func (v *ViewModel) Refresh() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failureCount = 0
	v.reload()
	return Snapshot{State: v.state, Banner: v.banner}
}

// FocusGained handles the focus-gained trigger: resets the backoff
// counter, then always reloads, per §4.7.
func (v *ViewModel) FocusGained() Snapshot {
	return v.Refresh()
}

// PollTick is one timer-driven refresh attempt. It is a no-op (returning
// ran=false) when windowVisible is false, when polling has backed off after
// repeated failures, or when the index file's mod time has not advanced
// since the last reload.
func (v *ViewModel) PollTick(windowVisible bool) (snapshot Snapshot, ran bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !windowVisible {
		return Snapshot{State: v.state, Banner: v.banner}, false
	}
	if v.failureCount >= v.backoffThreshold {
		return Snapshot{State: v.state, Banner: v.banner}, false
	}

	modTime, err := v.reader.ModTime(filereader.IndexPath(v.workspaceRoot))
	if err == nil && !modTime.After(v.lastModTime) {
		return Snapshot{State: v.state, Banner: v.banner}, false
	}

	v.reload()
	return Snapshot{State: v.state, Banner: v.banner}, true
}

// defaultBackoffThreshold is the failure count at which timer polling
// suspends itself, used when New is not given a configured value.
const defaultBackoffThreshold = 3

// reload runs the loader, applies its result, and updates the failure
// counter and mod-time bookkeeping. Caller holds v.mu.
func (v *ViewModel) reload() {
	result := galleryindex.Load(v.workspaceRoot, v.reader, v.lastKnownGood)

	v.state = result.State
	v.banner = result.Banner
	v.lastKnownGood = result.LastKnownGood

	if result.Banner.Severity == galleryindex.SeverityWarning {
		v.failureCount++
	} else {
		v.failureCount = 0
	}

	if modTime, err := v.reader.ModTime(filereader.IndexPath(v.workspaceRoot)); err == nil {
		v.lastModTime = modTime
	}
}

// ResumePolling resets the failure counter so timer polling can resume,
// without reloading. Refresh and FocusGained reset the counter themselves
// and do not call it.
func (v *ViewModel) ResumePolling() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failureCount = 0
}

// Suspended reports whether timer polling is currently backed off.
func (v *ViewModel) Suspended() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.failureCount >= v.backoffThreshold
}
