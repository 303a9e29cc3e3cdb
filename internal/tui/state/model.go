// Package state holds the bubbletea model of the signal editor.
package state

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/errors"
	"github.com/cristianoliveira/cansig/internal/logging"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/cristianoliveira/cansig/internal/tui/render"
)

const (
	headerFooterLines     = 4
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	defaultTickInterval   = 100 * time.Millisecond
	defaultSparklineWidth = 24
	stepSeconds           = 1.0
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeEdit
	modeFilter
	modeAdd
)

// SaveFunc persists the document.
type SaveFunc func(ctx context.Context) error

// CopyFunc puts text on the system clipboard.
type CopyFunc func(text string) error

// Options configures a Model.
type Options struct {
	Theme          colors.Theme
	SparklineWidth int
	TickInterval   time.Duration
	Save           SaveFunc
	Copy           CopyFunc
	Playing        bool
}

type tickMsg time.Time

// row is one line of the flattened tree.
type row struct {
	item   *signaltree.Item
	signal int
}

// Model is the bubbletea model of the signal view.
type Model struct {
	store  dbc.Store
	tree   *signaltree.Model
	replay *stream.Replay
	opts   Options
	styles render.Styles
	keys   keyMap
	help   help.Model
	logger logging.Logger

	errorHandler *errors.TUIHandler
	status       errors.Message

	rows     []row
	expanded map[string]bool
	stale    bool
	cursor   int
	offset   int
	width    int
	height   int

	mode    inputMode
	input   textinput.Model
	editing *signaltree.Item

	playing     bool
	confirmQuit bool
}

// New creates the view of tree. The model observes tree and rebuilds
// its rows whenever the tree structure changes.
func New(store dbc.Store, tree *signaltree.Model, replay *stream.Replay, opts Options) *Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.SparklineWidth <= 0 {
		opts.SparklineWidth = defaultSparklineWidth
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Theme.Name == "" {
		opts.Theme = colors.DarkTheme
	}
	input := textinput.New()
	input.CharLimit = 256

	m := &Model{
		store:    store,
		tree:     tree,
		replay:   replay,
		opts:     opts,
		styles:   render.NewStyles(opts.Theme),
		keys:     defaultKeyMap(),
		help:     help.New(),
		logger:   logging.With("component", "tui"),
		expanded: make(map[string]bool),
		stale:    true,
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
		input:    input,
		playing:  opts.Playing,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.status = msg
	})
	tree.Observe(m)
	m.rebuild()
	return m
}

// ModelReset implements signaltree.Observer.
func (m *Model) ModelReset() { m.stale = true }

// RowsInserted implements signaltree.Observer.
func (m *Model) RowsInserted(parent *signaltree.Item, first, last int) { m.stale = true }

// RowsRemoved implements signaltree.Observer.
func (m *Model) RowsRemoved(parent *signaltree.Item, first, last int) { m.stale = true }

// DataChanged implements signaltree.Observer.
func (m *Model) DataChanged(item *signaltree.Item) {}

// Status returns the latest status message.
func (m *Model) Status() errors.Message { return m.status }

// Init starts the replay ticker and fills the initial values.
func (m *Model) Init() tea.Cmd {
	m.refreshState()
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKeyMsg(msg)
		m.rebuildIfStale()
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		m.refreshState()
		return m, nil
	case tickMsg:
		if m.playing {
			m.advance(m.opts.TickInterval.Seconds())
		}
		return m, m.tick()
	}
	return m, nil
}

// advance moves the replay cursor by dt seconds, clamped to the
// recording, and refreshes the decoded values.
func (m *Model) advance(dt float64) {
	first, last := m.replay.Bounds()
	ts := m.replay.Current() + dt
	ts = max(first, min(ts, last))
	if ts == m.replay.Current() {
		return
	}
	m.replay.Seek(ts)
	m.refreshState()
}

// refreshState decodes the current payload and recomputes the
// sparklines of the signals on screen.
func (m *Model) refreshState() {
	m.rebuildIfStale()
	first, last := m.visibleSignals()
	if first < 0 {
		return
	}
	size := sparklineSize(m.opts.SparklineWidth)
	if err := m.tree.UpdateState(context.Background(), first, last, size); err != nil {
		m.logger.Error("update state failed", "error", err)
		errors.Report(m.errorHandler, err)
	}
}
