// Package errors routes user facing messages to the console or to the
// TUI status line, and classifies editor errors for display.
package errors

import (
	stderrors "errors"
	"sync"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/undo"
)

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler handles errors by printing to stdout/stderr using the colors package.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

// Error prints msg. A nested call made while printing goes straight to
// the output.
func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.colors.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) { h.colors.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.colors.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.colors.Success(msg) }

// Report sends err to h. Rejected input is a warning; a diverged
// history or a missing entity is an error. It reports whether err was
// non-nil.
func Report(h ErrorHandler, err error) bool {
	if err == nil {
		return false
	}
	var verr *signaltree.ValidationError
	switch {
	case stderrors.As(err, &verr), stderrors.Is(err, dbc.ErrInvalidRange), stderrors.Is(err, signaltree.ErrNoMessage):
		h.Warning(err.Error())
	case stderrors.Is(err, undo.ErrHistoryDiverged):
		h.Error("undo history is out of sync with the document: " + err.Error())
	default:
		h.Error(err.Error())
	}
	return true
}
