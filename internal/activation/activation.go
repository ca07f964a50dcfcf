// Package activation implements the pure decision logic that turns a
// validated activation request and an observed window state into a set of
// intended outcomes. It performs no platform I/O itself; Window and Index
// are small injected capabilities.
package activation

import (
	"errors"

	"github.com/codecomfy/nextgallery/internal/envelope"
)

// Window is the abstract window capability ActivationHandler drives. A
// concrete implementation (e.g. an X11/EWMH adapter) owns the platform
// calls; this package only sequences them.
type Window interface {
	IsValid() bool
	IsMinimized() bool
	IsForeground() bool
	BringToFront() error
	RestoreFromMinimized() error
	FlashTaskbar() error
	NavigateTo(view string) error
}

// Index is the abstract refresh capability the handler always invokes on
// a successful activation.
type Index interface {
	Refresh() error
}

// Outcome is one element of an ActivationResult's outcome set.
type Outcome int

const (
	OutcomeBroughtToFront Outcome = iota
	OutcomeAlreadyForeground
	OutcomeRestoredFromMinimized
	OutcomeNavigatedToView
	OutcomeRefreshedIndex
	OutcomeTaskbarFlashed
)

// ErrorOutcome enumerates the closed set of terminal failures.
type ErrorOutcome int

const (
	ErrorOutcomeNone ErrorOutcome = iota
	ErrorInvalidMessage
	ErrorUnsupportedVersion
	ErrorWindowUnavailable
	ErrorWorkspaceKeyMismatch
	ErrorMessageTooLarge
	ErrorInvalidKeyFormat
)

// ErrWindowUnavailable's text is the ErrorMessage of the ErrorWindowUnavailable
// result Handle returns when the window capability reports it is no longer
// valid.
var ErrWindowUnavailable = errors.New("activation: window is not valid")

// Result is the outcome of handle: either exactly one error outcome with a
// message, or a non-empty set of success outcomes that always includes
// OutcomeRefreshedIndex.
type Result struct {
	ErrorOutcome ErrorOutcome
	ErrorMessage string
	Outcomes     []Outcome
	NavigatedTo  string
}

// IsError reports whether Result represents the error branch.
func (r Result) IsError() bool { return r.ErrorOutcome != ErrorOutcomeNone }

// Has reports whether outcome is present in the success set.
func (r Result) Has(outcome Outcome) bool {
	for _, o := range r.Outcomes {
		if o == outcome {
			return true
		}
	}
	return false
}

func errorResult(outcome ErrorOutcome, message string) Result {
	return Result{ErrorOutcome: outcome, ErrorMessage: message}
}

// Handle runs the fixed 6-step algorithm from the activation request
// payload against the observed window and index capabilities. It never
// calls window methods beyond IsValid once IsValid reports false.
func Handle(request envelope.ActivationRequestPayload, window Window, index Index) Result {
	if !window.IsValid() {
		return errorResult(ErrorWindowUnavailable, ErrWindowUnavailable.Error())
	}

	var outcomes []Outcome

	if window.IsMinimized() {
		_ = window.RestoreFromMinimized()
		outcomes = append(outcomes, OutcomeRestoredFromMinimized)
		_ = window.FlashTaskbar()
		outcomes = append(outcomes, OutcomeTaskbarFlashed)
	} else if !window.IsForeground() {
		_ = window.BringToFront()
		outcomes = append(outcomes, OutcomeBroughtToFront)
	} else {
		outcomes = append(outcomes, OutcomeAlreadyForeground)
	}

	navigatedTo := ""
	if request.RequestedView != "" {
		_ = window.NavigateTo(request.RequestedView)
		outcomes = append(outcomes, OutcomeNavigatedToView)
		navigatedTo = request.RequestedView
	}

	_ = index.Refresh()
	outcomes = append(outcomes, OutcomeRefreshedIndex)

	return Result{Outcomes: outcomes, NavigatedTo: navigatedTo}
}

// WindowState maps a Result's outcomes to the response payload's
// window_state field.
func WindowState(r Result) string {
	switch {
	case r.Has(OutcomeRestoredFromMinimized), r.Has(OutcomeBroughtToFront):
		return envelope.WindowStateRestored
	case r.Has(OutcomeAlreadyForeground):
		return envelope.WindowStateAlreadyForeground
	default:
		return envelope.WindowStateUnknown
	}
}
