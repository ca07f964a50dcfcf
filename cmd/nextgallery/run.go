package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codecomfy/nextgallery/internal/activation"
	"github.com/codecomfy/nextgallery/internal/filereader"
	"github.com/codecomfy/nextgallery/internal/galleryconfig"
	"github.com/codecomfy/nextgallery/internal/pipetransport"
	"github.com/codecomfy/nextgallery/internal/router"
	"github.com/codecomfy/nextgallery/internal/viewmodel"
	"github.com/codecomfy/nextgallery/internal/windowmanager"
	"github.com/codecomfy/nextgallery/internal/workspacekey"
)

// vmIndex adapts a *viewmodel.ViewModel to the activation.Index capability.
type vmIndex struct{ vm *viewmodel.ViewModel }

func (i vmIndex) Refresh() error {
	i.vm.Refresh()
	return nil
}

// unavailableWindow is the activation.Window used when no real window
// backend could be reached (e.g. no X11 display). It always reports
// itself as unavailable, so the activation handler returns
// ErrorWindowUnavailable rather than panicking against a nil connection.
type unavailableWindow struct{}

func (unavailableWindow) IsValid() bool               { return false }
func (unavailableWindow) IsMinimized() bool           { return false }
func (unavailableWindow) IsForeground() bool          { return false }
func (unavailableWindow) BringToFront() error         { return nil }
func (unavailableWindow) RestoreFromMinimized() error { return nil }
func (unavailableWindow) FlashTaskbar() error         { return nil }
func (unavailableWindow) NavigateTo(string) error     { return nil }

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nextgallery run --workspace PATH [--view NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Become primary for the workspace, or activate the existing instance.")
	}
	workspace := fs.String("workspace", "", "Workspace directory")
	view := fs.String("view", "", "Requested view to navigate to if another instance is activated")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *workspace == "" {
		fmt.Fprintln(os.Stderr, "run requires --workspace")
		fs.Usage()
		return 2
	}

	cfg := galleryconfig.Default()
	if path, pathErr := galleryconfig.DefaultPath(); pathErr == nil {
		if loaded, loadErr := galleryconfig.Load(path); loadErr == nil {
			cfg = loaded
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	key, err := workspacekey.Compute(*workspace)
	if err != nil {
		logger.Error("failed to derive workspace key", "error", err)
		return 1
	}

	vm := viewmodel.New(*workspace, filereader.OS{}, cfg.BackoffThreshold)
	vm.Refresh()

	var window activation.Window = unavailableWindow{}
	conn, connErr := windowmanager.Connect(key.String())
	if connErr != nil {
		logger.Warn("no window backend available; running headless", "error", connErr)
	} else {
		window = conn
		defer conn.Close()
	}

	timeouts := pipetransport.Timeouts{
		Connect: cfg.ConnectTimeout,
		Send:    cfg.SendTimeout,
		Receive: cfg.ReceiveTimeout,
	}
	decision, err := router.Route(key.String(), *view, window, vmIndex{vm: vm}, timeouts, logger)
	if err != nil {
		logger.Error("routing failed", "error", err)
		return 1
	}
	defer decision.Router.Close()

	switch decision.Route {
	case router.ActivateExisting:
		logger.Info("activated existing instance", "workspace_key", key.String())
		return 0

	case router.CreateWindow, router.CreateWindowDegraded:
		if decision.Route == router.CreateWindowDegraded {
			logger.Warn("became primary in degraded mode", "workspace_key", key.String())
		} else {
			logger.Info("became primary", "workspace_key", key.String())
		}

		ctx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		poller := viewmodel.NewPoller(vm, viewmodel.PollerConfig{Interval: cfg.PollInterval, Logger: logger}, func() bool { return true }, nil)
		poller.Run(ctx)

		logger.Info("shutting down")
		return 0
	}

	return 1
}
