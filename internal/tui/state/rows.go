package state

import (
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/sparkline"
)

func sparklineSize(width int) sparkline.Size {
	return sparkline.Size{Width: width, Height: 1}
}

func (m *Model) rebuildIfStale() {
	if m.stale {
		m.rebuild()
	}
}

// rebuild flattens the visible tree rows. The cursor stays on the same
// item when it still exists.
func (m *Model) rebuild() {
	selected := m.selected()

	m.rows = m.rows[:0]
	n := m.tree.RowCount(nil)
	for i := 0; i < n; i++ {
		sig := m.tree.Child(nil, i)
		m.rows = append(m.rows, row{item: sig, signal: i})
		if !m.expanded[sig.SigName] {
			continue
		}
		for j := 0; j < m.tree.RowCount(sig); j++ {
			m.rows = append(m.rows, row{item: m.tree.Child(sig, j), signal: i})
		}
	}
	m.stale = false

	if selected != nil {
		for i, r := range m.rows {
			if r.item == selected {
				m.cursor = i
				break
			}
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
	m.ensureVisible()
}

// selected returns the item under the cursor, or nil.
func (m *Model) selected() *signaltree.Item {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].item
}

// selectedSignal returns the signal node owning the item under the cursor.
func (m *Model) selectedSignal() *signaltree.Item {
	it := m.selected()
	if it == nil {
		return nil
	}
	if it.Kind != signaltree.KindSignal {
		return it.Parent
	}
	return it
}

func (m *Model) listHeight() int {
	return max(1, m.height-headerFooterLines)
}

func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

// visibleSignals returns the first and last signal row on screen, or
// (-1, -1) when nothing is shown.
func (m *Model) visibleSignals() (first, last int) {
	if len(m.rows) == 0 {
		return -1, -1
	}
	end := min(m.offset+m.listHeight(), len(m.rows)) - 1
	return m.rows[m.offset].signal, m.rows[end].signal
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	prev := m.selectedSignal()
	m.cursor = max(0, min(m.cursor+delta, len(m.rows)-1))
	m.ensureVisible()
	if sig := m.selectedSignal(); sig != prev {
		m.tree.HighlightSignal(sig.SigName)
	}
	m.refreshState()
}
