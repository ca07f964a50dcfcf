package viewmodel

import (
	"context"
	"log/slog"
	"time"

	"github.com/codecomfy/nextgallery/internal/galleryindex"
)

// PollerConfig configures the background timer loop.
type PollerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller drives periodic PollTick calls against a ViewModel. Timer polls
// are suppressed unless the window is visible/focused; disposal is
// structural via context cancellation.
type Poller struct {
	vm       *ViewModel
	interval time.Duration
	logger   *slog.Logger
	visible  func() bool
	onTick   func(Snapshot)
}

// NewPoller creates a Poller for vm. visible reports whether the window
// is currently visible/focused; onTick, if non-nil, is called after every
// tick that actually ran a reload.
func NewPoller(vm *ViewModel, cfg PollerConfig, visible func() bool, onTick func(Snapshot)) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{vm: vm, interval: interval, logger: logger, visible: visible, onTick: onTick}
}

// Run blocks, ticking every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("gallery poller started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("gallery poller stopped")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("gallery poller panic recovered", "error", err)
		}
	}()

	visible := p.visible == nil || p.visible()
	snapshot, ran := p.vm.PollTick(visible)
	if !ran {
		return
	}
	if snapshot.Banner.Severity == galleryindex.SeverityWarning {
		p.logger.Warn("gallery poll produced a warning banner", "message", snapshot.Banner.Message)
	}
	if p.onTick != nil {
		p.onTick(snapshot)
	}
}
