package undo

import (
	"testing"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = dbc.MessageID{Source: 0, Address: 0x1F0}

func newSignal(name string, start, size int) dbc.Signal {
	sig := dbc.Signal{Name: name, StartBit: start, Size: size, IsLittleEndian: true, Factor: 1, Max: dbc.MaxRawValue(size)}
	dbc.UpdateMSBLSB(&sig)
	return sig
}

func newTestDocument(t *testing.T) *dbc.Document {
	t.Helper()
	doc := dbc.NewDocument("test")
	require.NoError(t, doc.UpdateMessage(testID, "ENGINE", 8, "engine data"))
	require.NoError(t, doc.AddSignal(testID, newSignal("rpm", 0, 16)))
	require.NoError(t, doc.AddSignal(testID, newSignal("temp", 16, 8)))
	return doc
}

// snapshot ignores signal order; a re-added signal goes to the end.
func snapshot(doc *dbc.Document) map[dbc.MessageID]dbc.Message {
	msgs := doc.Messages()
	for id, m := range msgs {
		m.Signals = m.SortedSignals()
		msgs[id] = m
	}
	return msgs
}

func TestCommandsRoundTrip(t *testing.T) {
	renamed := newSignal("coolant", 16, 8)
	renamed.Unit = "C"

	tests := []struct {
		name  string
		build func(doc *dbc.Document) Command
		check func(t *testing.T, doc *dbc.Document)
	}{
		{
			name:  "edit existing message",
			build: func(doc *dbc.Document) Command { return NewEditMessage(doc, testID, "MOTOR", 4, "") },
			check: func(t *testing.T, doc *dbc.Document) {
				m, ok := doc.Message(testID)
				require.True(t, ok)
				assert.Equal(t, "MOTOR", m.Name)
				assert.Equal(t, uint32(4), m.Size)
				assert.Len(t, m.Signals, 2)
			},
		},
		{
			name: "create message",
			build: func(doc *dbc.Document) Command {
				return NewEditMessage(doc, dbc.MessageID{Address: 0x2A}, "NEW_MSG_2A", 8, "")
			},
			check: func(t *testing.T, doc *dbc.Document) {
				_, ok := doc.Message(dbc.MessageID{Address: 0x2A})
				assert.True(t, ok)
			},
		},
		{
			name:  "remove message",
			build: func(doc *dbc.Document) Command { return NewRemoveMessage(doc, testID) },
			check: func(t *testing.T, doc *dbc.Document) {
				_, ok := doc.Message(testID)
				assert.False(t, ok)
			},
		},
		{
			name:  "add signal",
			build: func(doc *dbc.Document) Command { return NewAddSignal(doc, testID, newSignal("gear", 24, 4)) },
			check: func(t *testing.T, doc *dbc.Document) {
				_, ok := doc.Signal(testID, "gear")
				assert.True(t, ok)
			},
		},
		{
			name: "remove signal",
			build: func(doc *dbc.Document) Command {
				sig, _ := doc.Signal(testID, "rpm")
				return NewRemoveSignal(doc, testID, sig)
			},
			check: func(t *testing.T, doc *dbc.Document) {
				assert.Equal(t, 1, doc.SignalCount(testID))
			},
		},
		{
			name: "edit signal with rename",
			build: func(doc *dbc.Document) Command {
				sig, _ := doc.Signal(testID, "temp")
				return NewEditSignal(doc, testID, sig, renamed)
			},
			check: func(t *testing.T, doc *dbc.Document) {
				_, ok := doc.Signal(testID, "temp")
				assert.False(t, ok)
				sig, ok := doc.Signal(testID, "coolant")
				require.True(t, ok)
				assert.Equal(t, "C", sig.Unit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestDocument(t)
			before := snapshot(doc)

			cmd := tt.build(doc)
			require.NoError(t, cmd.Redo())
			tt.check(t, doc)
			after := snapshot(doc)

			require.NoError(t, cmd.Undo())
			assert.Equal(t, before, snapshot(doc))

			require.NoError(t, cmd.Redo())
			assert.Equal(t, after, snapshot(doc))
		})
	}
}

func TestCommandLabels(t *testing.T) {
	doc := newTestDocument(t)
	rpm, _ := doc.Signal(testID, "rpm")

	assert.Equal(t, "edit message MOTOR:496", NewEditMessage(doc, testID, "MOTOR", 8, "").Text())
	assert.Equal(t, "new message NEW_MSG_2A:42", NewEditMessage(doc, dbc.MessageID{Address: 0x2A}, "NEW_MSG_2A", 8, "").Text())
	assert.Equal(t, "remove message ENGINE:496", NewRemoveMessage(doc, testID).Text())
	assert.Equal(t, "add signal gear to ENGINE:496", NewAddSignal(doc, testID, newSignal("gear", 24, 4)).Text())
	assert.Equal(t, "remove signal rpm from ENGINE:496", NewRemoveSignal(doc, testID, rpm).Text())
	assert.Equal(t, "edit signal rpm in ENGINE:496", NewEditSignal(doc, testID, rpm, rpm).Text())
}

func TestRemoveMissingMessageIsNoop(t *testing.T) {
	doc := newTestDocument(t)
	cmd := NewRemoveMessage(doc, dbc.MessageID{Address: 0x999})
	require.NoError(t, cmd.Redo())
	require.NoError(t, cmd.Undo())
	assert.Empty(t, cmd.Text())
	assert.Len(t, doc.IDs(), 1)
}
