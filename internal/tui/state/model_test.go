package state

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/cansig/internal/dbc"
	tuierrors "github.com/cristianoliveira/cansig/internal/errors"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/cristianoliveira/cansig/internal/undo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = dbc.MessageID{Address: 0x1F0}

type fixture struct {
	doc    *dbc.Document
	replay *stream.Replay
	tree   *signaltree.Model
	model  *Model
	saves  int
	copied []string
}

func newSignal(name string, start, size int) dbc.Signal {
	sig := dbc.Signal{Name: name, IsLittleEndian: true, Factor: 1, Max: dbc.MaxRawValue(size)}
	dbc.UpdateSizeParamsFromRange(&sig, start, size)
	return sig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := dbc.NewDocument("test")
	doc.Reset(map[dbc.MessageID]dbc.Message{
		testID: {Name: "ENGINE", Size: 8, Signals: []dbc.Signal{newSignal("SPEED", 0, 8), newSignal("GEAR", 8, 4)}},
	})
	replay := stream.NewReplay()
	for i := 0; i <= 5; i++ {
		replay.Append(testID, stream.Event{Timestamp: float64(i), Data: []byte{byte(i * 10), byte(i % 4), 0, 0, 0, 0, 0, 0}})
	}
	tree := signaltree.New(doc, undo.NewStack(), replay, signaltree.Options{})
	tree.SetMessage(testID)

	f := &fixture{doc: doc, replay: replay, tree: tree}
	f.model = New(doc, tree, replay, Options{
		SparklineWidth: 8,
		Save: func(ctx context.Context) error {
			f.saves++
			return nil
		},
		Copy: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
	})
	f.model.Init()
	t.Cleanup(tree.Close)
	return f
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func titles(m *Model) []string {
	out := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.item.Title)
	}
	return out
}

func TestRowsFollowSignalOrder(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"SPEED", "GEAR"}, titles(f.model))
	assert.Equal(t, "0", f.model.rows[0].item.Value)
}

func TestExpandAndExtraInfo(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "enter")
	require.Len(t, m.rows, 2+signaltree.ExtraInfoFirstRow)
	assert.Equal(t, "Name", m.rows[1].item.Title)
	assert.Equal(t, "GEAR", m.rows[len(m.rows)-1].item.Title)

	for i := 0; i < signaltree.ExtraInfoFirstRow; i++ {
		press(m, "j")
	}
	require.Equal(t, signaltree.KindExtraInfo, m.selected().Kind)
	press(m, "enter")
	require.Len(t, m.rows, 2+signaltree.PropertyRowCount)
	assert.Equal(t, "Unit", m.rows[1+signaltree.ExtraInfoFirstRow].item.Title)

	press(m, "enter")
	assert.Len(t, m.rows, 2+signaltree.ExtraInfoFirstRow)

	press(m, "k", "k", "k", "k", "k", "k", "k", "enter")
	assert.Equal(t, []string{"SPEED", "GEAR"}, titles(m))
}

func TestMoveHighlightsSignal(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "j")
	assert.False(t, m.rows[0].item.Highlight)
	assert.True(t, m.rows[1].item.Highlight)

	press(m, "j")
	assert.Equal(t, 1, m.cursor)
}

func TestEditName(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "enter", "j", "e")
	require.Equal(t, modeEdit, m.mode)
	press(m, "_2", "enter")
	assert.Equal(t, modeNormal, m.mode)

	_, ok := f.doc.Signal(testID, "SPEED_2")
	assert.True(t, ok)
	assert.Equal(t, "SPEED_2", m.rows[0].item.Title)
	assert.False(t, f.tree.Stack().IsClean())

	press(m, "u")
	_, ok = f.doc.Signal(testID, "SPEED")
	assert.True(t, ok)
	assert.Contains(t, m.Status().Text, "undo edit signal SPEED in ENGINE:496")

	press(m, "ctrl+r")
	_, ok = f.doc.Signal(testID, "SPEED_2")
	assert.True(t, ok)
}

func TestEditRejectsInvalidValue(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "enter", "j", "j", "e", "x", "enter")
	assert.Equal(t, tuierrors.MessageTypeWarning, m.Status().Type)
	assert.Equal(t, 0, f.tree.Stack().Count())
}

func TestEditEscapeCancels(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "enter", "j", "e", "X", "esc")
	assert.Equal(t, modeNormal, m.mode)
	_, ok := f.doc.Signal(testID, "SPEED")
	assert.True(t, ok)
}

func TestToggleBooleanRow(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "enter", "j", "j", "j", "j")
	require.Equal(t, signaltree.KindSigned, m.selected().Kind)
	press(m, "e")

	sig, ok := f.doc.Signal(testID, "SPEED")
	require.True(t, ok)
	assert.True(t, sig.IsSigned)
	assert.Equal(t, modeNormal, m.mode)
}

func TestAddAndUndo(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "a", "16 8 le", "enter")
	assert.Equal(t, 3, f.doc.SignalCount(testID))
	assert.Len(t, m.rows, 3)
	assert.Equal(t, 1, f.tree.Stack().Count())

	press(m, "u")
	assert.Equal(t, 2, f.doc.SignalCount(testID))
	assert.Len(t, m.rows, 2)

	press(m, "u")
	assert.Equal(t, "nothing to undo", m.Status().Text)
}

func TestAddRejectsBadSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing size", "16"},
		{"not a number", "x 8"},
		{"bad endianness", "16 8 middle"},
		{"out of range", "60 16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			press(f.model, "a", tt.input, "enter")
			assert.Equal(t, tuierrors.MessageTypeWarning, f.model.Status().Type)
			assert.Equal(t, 2, f.doc.SignalCount(testID))
		})
	}
}

func TestParseSelection(t *testing.T) {
	start, size, le, err := parseSelection("7 16 be")
	require.NoError(t, err)
	assert.Equal(t, 7, start)
	assert.Equal(t, 16, size)
	assert.False(t, le)

	_, _, le, err = parseSelection(" 0 4 ")
	require.NoError(t, err)
	assert.True(t, le)
}

func TestRemoveSignal(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "j", "d")
	assert.Equal(t, []string{"SPEED"}, titles(m))
	assert.Equal(t, 0, m.cursor)

	press(m, "u")
	assert.Equal(t, []string{"SPEED", "GEAR"}, titles(m))
}

func TestFilter(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "/", "gea")
	assert.Equal(t, []string{"GEAR"}, titles(m))
	press(m, "enter")
	assert.Equal(t, "gea", f.tree.Filter())
	assert.Contains(t, m.View(), `filter "gea"`)

	press(m, "/", "esc")
	assert.Equal(t, []string{"SPEED", "GEAR"}, titles(m))
}

func TestSaveMarksClean(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "d")
	require.False(t, f.tree.Stack().IsClean())
	press(m, "s")
	assert.Equal(t, 1, f.saves)
	assert.True(t, f.tree.Stack().IsClean())
	assert.Equal(t, tuierrors.MessageTypeSuccess, m.Status().Type)
}

func TestSaveFailure(t *testing.T) {
	f := newFixture(t)
	f.model.opts.Save = func(ctx context.Context) error { return errors.New("disk full") }

	press(f.model, "d", "s")
	assert.False(t, f.tree.Stack().IsClean())
	assert.Equal(t, tuierrors.MessageTypeError, f.model.Status().Type)
	assert.Contains(t, f.model.Status().Text, "disk full")
}

func TestQuitNeedsConfirmationWhenModified(t *testing.T) {
	f := newFixture(t)
	m := f.model

	assert.NotNil(t, press(newFixture(t).model, "q"))

	press(m, "d")
	assert.Nil(t, press(m, "q"))
	assert.Equal(t, tuierrors.MessageTypeWarning, m.Status().Type)
	assert.NotNil(t, press(m, "q"))
}

func TestReplayStepAndTick(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "]", "]")
	assert.Equal(t, 2.0, f.replay.Current())
	assert.Equal(t, "20", m.rows[0].item.Value)
	assert.NotEmpty(t, m.rows[0].item.Sparkline.Columns)

	press(m, "[")
	assert.Equal(t, 1.0, f.replay.Current())
	assert.Equal(t, "10", m.rows[0].item.Value)

	for i := 0; i < 10; i++ {
		press(m, "]")
	}
	assert.Equal(t, 5.0, f.replay.Current())

	press(m, "[", "p")
	m.opts.TickInterval = 500 * time.Millisecond
	_, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 4.5, f.replay.Current())
}

func TestSparklineRangeKeys(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "+")
	assert.Equal(t, signaltree.DefaultSparklineRange+1, f.tree.SparklineRange())
	press(m, "-", "-")
	assert.Equal(t, signaltree.DefaultSparklineRange-1, f.tree.SparklineRange())
}

func TestViewScrollsWithCursor(t *testing.T) {
	f := newFixture(t)
	m := f.model
	m.Update(tea.WindowSizeMsg{Width: 80, Height: headerFooterLines + 3})

	press(m, "enter")
	for i := 0; i < 5; i++ {
		press(m, "j")
	}
	assert.Equal(t, 3, m.offset)
	view := m.View()
	assert.Contains(t, view, "ENGINE (0:1f0)")
	assert.Contains(t, view, "Little Endian")
	assert.Contains(t, view, "Offset")
	assert.NotContains(t, view, "Name")
}

func TestEmptyView(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "/", "nothing", "enter")
	assert.Empty(t, m.rows)
	assert.Contains(t, m.View(), "No signals match the filter")
	press(m, "j", "d", "e")
	assert.Equal(t, 0, f.tree.Stack().Count())
}

func TestCopyValue(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, "]", "y", "enter", "j", "j", "y")
	assert.Equal(t, []string{"10", "8"}, f.copied)
	assert.Equal(t, `copied "8"`, m.Status().Text)

	m.opts.Copy = func(string) error { return errors.New("no clipboard") }
	press(m, "y")
	assert.Equal(t, tuierrors.MessageTypeError, m.Status().Type)
}
