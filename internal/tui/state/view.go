package state

import (
	"strings"

	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(render.Empty(m.styles, m.tree.Filter() != ""))
		b.WriteString("\n")
	} else {
		end := min(m.offset+m.listHeight(), len(m.rows))
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(m.rows[i].item, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	state := render.HeaderState{
		MessageName: dbc.Untitled,
		Filter:      m.tree.Filter(),
		Range:       m.tree.SparklineRange(),
		Time:        m.replay.Current(),
		Modified:    !m.tree.Stack().IsClean(),
		Width:       m.width,
	}
	if id, ok := m.tree.MessageID(); ok {
		state.MessageID = id.String()
		if msg, ok := m.store.Message(id); ok {
			state.MessageName = msg.Name
		}
	}
	return render.Header(m.styles, state)
}

func (m *Model) renderRow(it *signaltree.Item, selected bool) string {
	if it.Kind == signaltree.KindSignal {
		state := render.SignalRowState{
			Name:      it.Title,
			Value:     it.Value,
			Sparkline: it.Sparkline.Blocks(),
			Expanded:  m.expanded[it.SigName],
			Highlight: it.Highlight,
			Selected:  selected,
			Width:     m.width,
		}
		if sig, ok := m.tree.Signal(it); ok {
			state.Color = colors.SignalColor(sig.Name, sig.LSB)
		}
		return render.SignalRow(m.styles, state)
	}
	return render.PropertyRow(m.styles, render.PropertyRowState{
		Title:    it.Title,
		Value:    m.tree.DisplayText(it),
		Group:    it.Kind == signaltree.KindExtraInfo,
		Expanded: it.Parent.ExtraExpanded,
		Nested:   it.IsExtraInfo(),
		Editable: m.tree.Editable(it),
		Selected: selected,
		Width:    m.width,
	})
}

func (m *Model) renderFooter() string {
	var line string
	if m.mode != modeNormal {
		line = m.input.View()
	} else {
		line = m.help.View(m.keys)
	}
	status := render.Status(m.styles, m.status)
	if status == "" {
		return line
	}
	return line + "\n" + status
}
