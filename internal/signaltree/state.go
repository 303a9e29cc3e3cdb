package signaltree

import (
	"context"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/sparkline"
)

// SparklineRange returns the sparkline window in seconds.
func (m *Model) SparklineRange() int { return m.opts.SparklineRange }

// SetSparklineRange changes the sparkline window, clamped to
// [1, MaxSparklineRange] seconds.
func (m *Model) SetSparklineRange(sec int) {
	m.opts.SparklineRange = clampRange(sec)
}

// HighlightSignal highlights the named signal and clears the others.
// An empty name clears all highlights.
func (m *Model) HighlightSignal(name string) {
	for _, c := range m.root.Children {
		highlight := name != "" && c.SigName == name
		if c.Highlight != highlight {
			c.Highlight = highlight
			m.emit(func(o Observer) { o.DataChanged(c) })
		}
	}
}

// UpdateState decodes the last payload of the shown message into every
// signal node and recomputes the sparklines of the signal rows
// visibleFirst through visibleLast. Sparklines are updated concurrently
// and all of them are done when UpdateState returns.
func (m *Model) UpdateState(ctx context.Context, visibleFirst, visibleLast int, size sparkline.Size) error {
	if !m.hasMessage || len(m.root.Children) == 0 {
		return nil
	}
	last := m.source.LastMessage(m.msgID)
	if len(last.Data) == 0 {
		return nil
	}

	signals := make([]dbc.Signal, len(m.root.Children))
	for i, c := range m.root.Children {
		sig, ok := m.Signal(c)
		if !ok {
			continue
		}
		signals[i] = sig
		c.Value = sig.FormatValue(dbc.RawValue(last.Data, sig))
	}

	visibleFirst = max(visibleFirst, 0)
	visibleLast = min(visibleLast, len(m.root.Children)-1)
	var jobs []sparkline.Job
	for i := visibleFirst; i <= visibleLast; i++ {
		c := m.root.Children[i]
		if signals[i].Name == "" || !c.Sparkline.NeedsUpdate(last.Timestamp, m.opts.SparklineRange, size) {
			continue
		}
		jobs = append(jobs, sparkline.Job{
			Sparkline: &c.Sparkline,
			ID:        m.msgID,
			Signal:    signals[i],
			LastTS:    last.Timestamp,
			TimeRange: m.opts.SparklineRange,
			Size:      size,
		})
	}
	if err := sparkline.Refresh(ctx, m.source, jobs, m.opts.Workers); err != nil {
		return err
	}

	for _, c := range m.root.Children {
		m.emit(func(o Observer) { o.DataChanged(c) })
	}
	return nil
}
