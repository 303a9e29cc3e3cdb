package signaltree

import (
	"strconv"
	"strings"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/logging"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/cristianoliveira/cansig/internal/undo"
)

// Observer mirrors structural and data changes for incremental view
// refresh. parent is the root item for signal rows.
type Observer interface {
	ModelReset()
	RowsInserted(parent *Item, first, last int)
	RowsRemoved(parent *Item, first, last int)
	DataChanged(item *Item)
}

const (
	DefaultSparklineRange = 15
	MaxSparklineRange     = 30
)

// Options tunes the live state refresh.
type Options struct {
	// SparklineRange is the sparkline window in seconds.
	SparklineRange int
	// Workers bounds concurrent sparkline updates; 0 means unbounded.
	Workers int
}

// Model is the signal tree of the selected message. It re-resolves
// signals against the store by (message id, name) on every access.
// Not safe for concurrent use.
type Model struct {
	store  dbc.Store
	stack  *undo.Stack
	source stream.Stream
	opts   Options

	msgID      dbc.MessageID
	hasMessage bool
	filter     string
	root       *Item

	observers   []Observer
	unsubscribe func()
	logger      logging.Logger
}

// New creates an empty model and subscribes it to store notifications.
func New(store dbc.Store, stack *undo.Stack, source stream.Stream, opts Options) *Model {
	if opts.SparklineRange == 0 {
		opts.SparklineRange = DefaultSparklineRange
	}
	opts.SparklineRange = clampRange(opts.SparklineRange)
	m := &Model{
		store:  store,
		stack:  stack,
		source: source,
		opts:   opts,
		root:   &Item{Kind: KindRoot},
		logger: logging.With("component", "signaltree"),
	}
	m.unsubscribe = store.Subscribe(m)
	return m
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Observe registers o for change notifications.
func (m *Model) Observe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Model) emit(fn func(Observer)) {
	for _, o := range m.observers {
		fn(o)
	}
}

// Root returns the invisible root item.
func (m *Model) Root() *Item { return m.root }

// MessageID returns the shown message, if any.
func (m *Model) MessageID() (dbc.MessageID, bool) { return m.msgID, m.hasMessage }

// Filter returns the active name filter.
func (m *Model) Filter() string { return m.filter }

// Stack returns the undo history edits are pushed to.
func (m *Model) Stack() *undo.Stack { return m.stack }

// SetMessage shows message id and clears the filter.
func (m *Model) SetMessage(id dbc.MessageID) {
	m.msgID = id
	m.hasMessage = true
	m.filter = ""
	m.Refresh()
}

// SetFilter keeps only signals whose name contains text, ignoring case.
func (m *Model) SetFilter(text string) {
	m.filter = text
	m.Refresh()
}

func (m *Model) matches(name string) bool {
	return m.filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(m.filter))
}

// Refresh rebuilds every signal node from the store.
func (m *Model) Refresh() {
	m.root = &Item{Kind: KindRoot}
	if msg, ok := m.message(); ok {
		for _, sig := range msg.SortedSignals() {
			if m.matches(sig.Name) {
				m.root.Children = append(m.root.Children, newSignalItem(m.root, sig.Name))
			}
		}
	}
	m.emit(func(o Observer) { o.ModelReset() })
}

func (m *Model) message() (dbc.Message, bool) {
	if !m.hasMessage {
		return dbc.Message{}, false
	}
	return m.store.Message(m.msgID)
}

func (m *Model) item(it *Item) *Item {
	if it == nil {
		return m.root
	}
	return it
}

// RowCount returns the number of visible children of it (nil is the root).
func (m *Model) RowCount(it *Item) int {
	it = m.item(it)
	n := len(it.Children)
	if it.Kind == KindSignal && !it.ExtraExpanded {
		n -= ExtraInfoRowCount
	}
	return n
}

// Child returns the visible child at row, or nil.
func (m *Model) Child(it *Item, row int) *Item {
	it = m.item(it)
	if row < 0 || row >= m.RowCount(it) {
		return nil
	}
	return it.Children[row]
}

// SignalRow returns the row of the named signal, or -1.
func (m *Model) SignalRow(name string) int {
	for i, c := range m.root.Children {
		if c.SigName == name {
			return i
		}
	}
	return -1
}

// Signal resolves the current definition of the signal it belongs to.
func (m *Model) Signal(it *Item) (dbc.Signal, bool) {
	if it == nil || it.Kind == KindRoot || !m.hasMessage {
		return dbc.Signal{}, false
	}
	return m.store.Signal(m.msgID, it.SigName)
}

// DisplayText returns the value column of it.
func (m *Model) DisplayText(it *Item) string {
	if it == nil {
		return ""
	}
	if it.Kind == KindSignal {
		return it.Value
	}
	sig, ok := m.Signal(it)
	if !ok {
		return ""
	}
	switch it.Kind {
	case KindName:
		return sig.Name
	case KindSize:
		return strconv.Itoa(sig.Size)
	case KindEndian:
		return strconv.FormatBool(sig.IsLittleEndian)
	case KindSigned:
		return strconv.FormatBool(sig.IsSigned)
	case KindOffset:
		return dbc.FormatDouble(sig.Offset)
	case KindFactor:
		return dbc.FormatDouble(sig.Factor)
	case KindUnit:
		return sig.Unit
	case KindComment:
		return sig.Comment
	case KindMin:
		return dbc.FormatDouble(sig.Min)
	case KindMax:
		return dbc.FormatDouble(sig.Max)
	case KindDesc:
		return dbc.FormatValueDescriptions(sig.ValueDescriptions)
	}
	return ""
}

// Editable reports whether SetData accepts a value for it.
func (m *Model) Editable(it *Item) bool {
	return it != nil && it.Kind >= KindName && it.Kind != KindExtraInfo
}

// Checkable reports whether it is a boolean row.
func (m *Model) Checkable(it *Item) bool {
	return it != nil && (it.Kind == KindEndian || it.Kind == KindSigned)
}

// ToggleExtraInfo expands or collapses the extra info group of the
// signal owning it. Only the Extra Info row toggles.
func (m *Model) ToggleExtraInfo(it *Item) bool {
	if it == nil || it.Kind != KindExtraInfo {
		return false
	}
	parent := it.Parent
	first, last := ExtraInfoFirstRow, ExtraInfoFirstRow+ExtraInfoRowCount-1
	parent.ExtraExpanded = !parent.ExtraExpanded
	if parent.ExtraExpanded {
		m.emit(func(o Observer) { o.RowsInserted(parent, first, last) })
	} else {
		m.emit(func(o Observer) { o.RowsRemoved(parent, first, last) })
	}
	return true
}

// DocumentReset implements dbc.Listener.
func (m *Model) DocumentReset() {
	m.Refresh()
}

// MessageUpdated implements dbc.Listener.
func (m *Model) MessageUpdated(id dbc.MessageID) {
	if m.hasMessage && id == m.msgID {
		m.Refresh()
	}
}

// MessageRemoved implements dbc.Listener.
func (m *Model) MessageRemoved(id dbc.MessageID) {
	if m.hasMessage && id == m.msgID {
		m.Refresh()
	}
}

// SignalAdded implements dbc.Listener. The node goes before the first
// one with a greater start bit.
func (m *Model) SignalAdded(id dbc.MessageID, sig dbc.Signal) {
	if !m.hasMessage || id != m.msgID || !m.matches(sig.Name) || m.SignalRow(sig.Name) != -1 {
		return
	}
	row := 0
	for ; row < len(m.root.Children); row++ {
		child, ok := m.Signal(m.root.Children[row])
		if ok && sig.StartBit < child.StartBit {
			break
		}
	}
	item := newSignalItem(m.root, sig.Name)
	m.root.Children = append(m.root.Children, nil)
	copy(m.root.Children[row+1:], m.root.Children[row:])
	m.root.Children[row] = item
	m.emit(func(o Observer) { o.RowsInserted(m.root, row, row) })
}

// SignalUpdated implements dbc.Listener.
func (m *Model) SignalUpdated(id dbc.MessageID, oldName string, sig dbc.Signal) {
	if !m.hasMessage || id != m.msgID {
		return
	}
	row := m.SignalRow(oldName)
	if row == -1 {
		return
	}
	item := m.root.Children[row]
	item.rename(sig.Name)
	item.Sparkline.Invalidate()
	m.emit(func(o Observer) { o.DataChanged(item) })
}

// SignalRemoved implements dbc.Listener.
func (m *Model) SignalRemoved(id dbc.MessageID, sig dbc.Signal) {
	if !m.hasMessage || id != m.msgID {
		return
	}
	row := m.SignalRow(sig.Name)
	if row == -1 {
		return
	}
	m.root.Children = append(m.root.Children[:row], m.root.Children[row+1:]...)
	m.emit(func(o Observer) { o.RowsRemoved(m.root, row, row) })
}

func clampRange(sec int) int {
	return max(1, min(sec, MaxSparklineRange))
}
