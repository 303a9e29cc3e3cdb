package undo

import (
	"errors"
	"fmt"

	"github.com/cristianoliveira/cansig/internal/logging"
)

// ErrHistoryDiverged is returned when a command could not be applied
// because the document no longer matches the recorded history.
var ErrHistoryDiverged = errors.New("undo history diverged from document")

// ChangeFunc is called after the cursor or the clean state changed.
type ChangeFunc func(index int, clean bool)

// Stack is a linear history with a cursor. Commands below the cursor
// are applied; the ones above it can be redone.
type Stack struct {
	commands  []Command
	index     int
	clean     int
	listeners []ChangeFunc
	logger    logging.Logger
}

// NewStack creates an empty, clean stack.
func NewStack() *Stack {
	return &Stack{logger: logging.With("component", "undo")}
}

// OnChange registers fn for index and clean state changes.
func (s *Stack) OnChange(fn ChangeFunc) {
	s.listeners = append(s.listeners, fn)
}

func (s *Stack) changed() {
	for _, fn := range s.listeners {
		fn(s.index, s.IsClean())
	}
}

func (s *Stack) diverged(op string, cmd Command, err error) error {
	s.logger.Error("command failed", "op", op, "command", cmd.Text(), "index", s.index, "error", err)
	return fmt.Errorf("%s %q: %w: %w", op, cmd.Text(), ErrHistoryDiverged, err)
}

// Push discards the redo tail, applies cmd and records it.
func (s *Stack) Push(cmd Command) error {
	if err := cmd.Redo(); err != nil {
		return s.diverged("push", cmd, err)
	}
	s.commands = append(s.commands[:s.index], cmd)
	if s.clean > s.index {
		s.clean = -1
	}
	s.index++
	s.logger.Debug("push", "command", cmd.Text(), "index", s.index)
	s.changed()
	return nil
}

// Undo reverts the command below the cursor. It reports false when
// there is nothing to undo.
func (s *Stack) Undo() (bool, error) {
	if !s.CanUndo() {
		return false, nil
	}
	cmd := s.commands[s.index-1]
	if err := cmd.Undo(); err != nil {
		return false, s.diverged("undo", cmd, err)
	}
	s.index--
	s.logger.Debug("undo", "command", cmd.Text(), "index", s.index)
	s.changed()
	return true, nil
}

// Redo reapplies the command at the cursor. It reports false when
// there is nothing to redo.
func (s *Stack) Redo() (bool, error) {
	if !s.CanRedo() {
		return false, nil
	}
	cmd := s.commands[s.index]
	if err := cmd.Redo(); err != nil {
		return false, s.diverged("redo", cmd, err)
	}
	s.index++
	s.logger.Debug("redo", "command", cmd.Text(), "index", s.index)
	s.changed()
	return true, nil
}

// SetClean marks the current index as the saved state.
func (s *Stack) SetClean() {
	s.clean = s.index
	s.changed()
}

// IsClean reports whether the cursor is at the saved state.
func (s *Stack) IsClean() bool { return s.clean == s.index }

// Index is the number of applied commands.
func (s *Stack) Index() int { return s.index }

// Count is the number of recorded commands.
func (s *Stack) Count() int { return len(s.commands) }

// CanUndo reports whether there is an applied command to revert.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether there is a reverted command to apply again.
func (s *Stack) CanRedo() bool { return s.index < len(s.commands) }

// Command returns the i-th recorded command, or nil.
func (s *Stack) Command(i int) Command {
	if i < 0 || i >= len(s.commands) {
		return nil
	}
	return s.commands[i]
}

// UndoText is the label of the command Undo would revert.
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return s.commands[s.index-1].Text()
}

// RedoText is the label of the command Redo would apply.
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return s.commands[s.index].Text()
}
