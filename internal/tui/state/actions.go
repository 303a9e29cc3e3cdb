package state

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/cansig/internal/errors"
	"github.com/cristianoliveira/cansig/internal/signaltree"
)

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}

	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Edit):
		m.startEdit()
	case key.Matches(msg, m.keys.Check):
		m.check()
	case key.Matches(msg, m.keys.Filter):
		m.startInput(modeFilter, "/", m.tree.Filter())
	case key.Matches(msg, m.keys.Add):
		m.startInput(modeAdd, "add (start size [le|be]): ", "")
	case key.Matches(msg, m.keys.Remove):
		m.remove()
	case key.Matches(msg, m.keys.Copy):
		m.copyValue()
	case key.Matches(msg, m.keys.Undo):
		m.undo()
	case key.Matches(msg, m.keys.Redo):
		m.redo()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.StepForward):
		m.advance(stepSeconds)
	case key.Matches(msg, m.keys.StepBack):
		m.advance(-stepSeconds)
	case key.Matches(msg, m.keys.Play):
		m.playing = !m.playing
	case key.Matches(msg, m.keys.RangeUp):
		m.setRange(m.tree.SparklineRange() + 1)
	case key.Matches(msg, m.keys.RangeDown):
		m.setRange(m.tree.SparklineRange() - 1)
	}
	return nil
}

// quit exits unless there are unsaved edits, which need a second press.
func (m *Model) quit() tea.Cmd {
	if m.tree.Stack().IsClean() || m.confirmQuit {
		return tea.Quit
	}
	m.confirmQuit = true
	m.errorHandler.Warning("unsaved changes, press q again to quit")
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeFilter {
			m.tree.SetFilter("")
		}
		m.stopInput()
		return nil
	case tea.KeyEnter:
		value, mode, editing := m.input.Value(), m.mode, m.editing
		m.stopInput()
		m.submit(mode, value, editing)
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeFilter {
		m.tree.SetFilter(m.input.Value())
	}
	return cmd
}

func (m *Model) startInput(mode inputMode, prompt, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = modeNormal
	m.editing = nil
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submit(mode inputMode, value string, editing *signaltree.Item) {
	switch mode {
	case modeEdit:
		m.commitEdit(editing, value)
	case modeFilter:
		m.tree.SetFilter(strings.TrimSpace(value))
	case modeAdd:
		m.addSignal(value)
	}
}

// toggle expands a signal or its extra info group.
func (m *Model) toggle() {
	it := m.selected()
	if it == nil {
		return
	}
	switch it.Kind {
	case signaltree.KindSignal:
		m.expanded[it.SigName] = !m.expanded[it.SigName]
		m.stale = true
	case signaltree.KindExtraInfo:
		m.tree.ToggleExtraInfo(it)
	}
}

func (m *Model) startEdit() {
	it := m.selected()
	if it == nil || !m.tree.Editable(it) {
		return
	}
	if m.tree.Checkable(it) {
		m.check()
		return
	}
	m.startInput(modeEdit, it.Title+": ", m.tree.DisplayText(it))
	m.editing = it
}

func (m *Model) commitEdit(it *signaltree.Item, value string) {
	if it == nil || !m.tree.Editable(it) {
		return
	}
	if errors.Report(m.errorHandler, m.tree.SetData(it, value)) {
		return
	}
	m.refreshState()
}

// check flips a boolean property row.
func (m *Model) check() {
	it := m.selected()
	if it == nil || !m.tree.Checkable(it) {
		return
	}
	current, _ := strconv.ParseBool(m.tree.DisplayText(it))
	if errors.Report(m.errorHandler, m.tree.SetData(it, strconv.FormatBool(!current))) {
		return
	}
	m.refreshState()
}

// addSignal parses "start size [le|be]" and adds a signal over that
// bit selection.
func (m *Model) addSignal(value string) {
	start, size, le, err := parseSelection(value)
	if err != nil {
		m.errorHandler.Warning(err.Error())
		return
	}
	if errors.Report(m.errorHandler, m.tree.AddSignal(start, size, le)) {
		return
	}
	m.errorHandler.Info(m.tree.Stack().UndoText())
	m.rebuildIfStale()
	m.refreshState()
}

func parseSelection(value string) (start, size int, littleEndian bool, err error) {
	fields := strings.Fields(value)
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, false, fmt.Errorf("expected \"start size [le|be]\", got %q", value)
	}
	if start, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, false, fmt.Errorf("invalid start bit %q", fields[0])
	}
	if size, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, false, fmt.Errorf("invalid size %q", fields[1])
	}
	littleEndian = true
	if len(fields) == 3 {
		switch strings.ToLower(fields[2]) {
		case "le":
		case "be":
			littleEndian = false
		default:
			return 0, 0, false, fmt.Errorf("invalid endianness %q, use le or be", fields[2])
		}
	}
	return start, size, littleEndian, nil
}

func (m *Model) remove() {
	sig := m.selectedSignal()
	if sig == nil {
		return
	}
	if errors.Report(m.errorHandler, m.tree.RemoveSignal(sig.SigName)) {
		return
	}
	m.errorHandler.Info(m.tree.Stack().UndoText())
}

// copyValue copies the value column of the selected row.
func (m *Model) copyValue() {
	it := m.selected()
	if it == nil {
		return
	}
	text := m.tree.DisplayText(it)
	if err := m.opts.Copy(text); err != nil {
		m.errorHandler.Error(fmt.Sprintf("copy failed: %v", err))
		return
	}
	m.errorHandler.Info(fmt.Sprintf("copied %q", text))
}

func (m *Model) undo() {
	text := m.tree.Stack().UndoText()
	ok, err := m.tree.Stack().Undo()
	if errors.Report(m.errorHandler, err) {
		return
	}
	if !ok {
		m.errorHandler.Info("nothing to undo")
		return
	}
	m.errorHandler.Info("undo " + text)
	m.refreshState()
}

func (m *Model) redo() {
	text := m.tree.Stack().RedoText()
	ok, err := m.tree.Stack().Redo()
	if errors.Report(m.errorHandler, err) {
		return
	}
	if !ok {
		m.errorHandler.Info("nothing to redo")
		return
	}
	m.errorHandler.Info("redo " + text)
	m.refreshState()
}

func (m *Model) save() {
	if m.opts.Save == nil {
		m.errorHandler.Warning("saving is not available")
		return
	}
	if err := m.opts.Save(context.Background()); err != nil {
		m.logger.Error("save failed", "error", err)
		m.errorHandler.Error(fmt.Sprintf("save failed: %v", err))
		return
	}
	m.tree.Stack().SetClean()
	m.errorHandler.Success("saved")
}

func (m *Model) setRange(sec int) {
	m.tree.SetSparklineRange(sec)
	m.refreshState()
}
