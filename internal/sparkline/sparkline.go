// Package sparkline keeps a compact min/max-over-time summary of a
// signal's recent values.
package sparkline

import (
	"math"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/segtree"
	"github.com/cristianoliveira/cansig/internal/stream"
)

// Size is the rendered size in cells.
type Size struct {
	Width  int
	Height int
}

// Point is a decoded sample; X is seconds since the first sample in the window.
type Point struct {
	X float64
	Y float64
}

// Column is the value range drawn in one output column.
type Column struct {
	Min   float64
	Max   float64
	Empty bool
}

// Sparkline is the cached series of one signal. A Sparkline is only
// touched by one goroutine at a time.
type Sparkline struct {
	Min       float64
	Max       float64
	LastTS    float64
	TimeRange int
	Columns   []Column

	size   Size
	values []Point
	tree   *segtree.Tree
	valid  bool
}

// Size returns the size of the last layout.
func (s *Sparkline) Size() Size {
	return s.size
}

// Empty reports whether the window holds no sample.
func (s *Sparkline) Empty() bool {
	return len(s.values) == 0
}

// Values returns the decoded samples of the current window.
func (s *Sparkline) Values() []Point {
	return s.values
}

// Freq returns the sample rate over the window, in Hz.
func (s *Sparkline) Freq() float64 {
	if len(s.values) == 0 {
		return 0
	}
	span := math.Max(s.values[len(s.values)-1].X-s.values[0].X, 1.0)
	return float64(len(s.values)) / span
}

// Invalidate forces the next Update to decode the window again.
func (s *Sparkline) Invalidate() {
	s.valid = false
}

// NeedsUpdate reports whether the cache key differs from the last update.
func (s *Sparkline) NeedsUpdate(lastTS float64, timeRange int, size Size) bool {
	return !s.valid || s.LastTS != lastTS || s.TimeRange != timeRange || s.size != size
}

// Update recomputes the series for the window (lastTS-timeRange, lastTS].
// Samples are decoded again only when lastTS or timeRange changed; a size
// change alone only redoes the column layout.
func (s *Sparkline) Update(src stream.Stream, id dbc.MessageID, sig dbc.Signal, lastTS float64, timeRange int, size Size) {
	updateValues := !s.valid || s.LastTS != lastTS || s.TimeRange != timeRange
	resized := s.size != size
	s.valid = true
	s.LastTS = lastTS
	s.TimeRange = timeRange
	s.size = size

	if updateValues {
		first := math.Max(lastTS-float64(timeRange), 0)
		s.decode(src.SamplesInWindow(id, first, lastTS), sig)
	}
	if len(s.values) == 0 {
		s.Min, s.Max = -1, 1
		s.Columns = nil
		return
	}
	if updateValues || resized {
		s.layout()
	}
}

func (s *Sparkline) decode(events []stream.Event, sig dbc.Signal) {
	s.values = s.values[:0]
	if len(events) == 0 {
		s.tree = nil
		return
	}
	s.Min = math.MaxFloat64
	s.Max = -math.MaxFloat64
	ys := make([]float64, 0, len(events))
	for _, e := range events {
		v := dbc.RawValue(e.Data, sig)
		s.values = append(s.values, Point{X: e.Timestamp - events[0].Timestamp, Y: v})
		ys = append(ys, v)
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Min == s.Max {
		s.Min--
		s.Max++
	}
	s.tree = segtree.New(ys)
}

// layout buckets sample indices by output column and resolves each
// bucket with one range query.
func (s *Sparkline) layout() {
	width := s.size.Width
	if width <= 0 || s.tree == nil {
		s.Columns = nil
		return
	}
	xscale := 0.0
	if s.TimeRange > 0 {
		xscale = float64(width-1) / float64(s.TimeRange)
	}
	cols := make([]Column, width)
	for i := range cols {
		cols[i].Empty = true
	}
	lo := 0
	for lo < len(s.values) {
		col := columnOf(s.values[lo].X, xscale, width)
		hi := lo
		for hi+1 < len(s.values) && columnOf(s.values[hi+1].X, xscale, width) == col {
			hi++
		}
		if mm, ok := s.tree.MinMax(lo, hi); ok {
			cols[col] = Column{Min: mm.Min, Max: mm.Max}
		}
		lo = hi + 1
	}
	s.Columns = cols
}

func columnOf(x, xscale float64, width int) int {
	col := int(x * xscale)
	if col < 0 {
		return 0
	}
	if col >= width {
		return width - 1
	}
	return col
}

var levels = []rune("▁▂▃▄▅▆▇█")

// Blocks renders the columns as a single line of block characters.
func (s *Sparkline) Blocks() string {
	out := make([]rune, len(s.Columns))
	span := s.Max - s.Min
	for i, c := range s.Columns {
		if c.Empty || span <= 0 {
			out[i] = ' '
			continue
		}
		level := int((c.Max - s.Min) / span * float64(len(levels)-1))
		level = max(0, min(level, len(levels)-1))
		out[i] = levels[level]
	}
	return string(out)
}
