package stream

import (
	"testing"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = dbc.MessageID{Address: 0x100}

func newTestReplay() *Replay {
	r := NewReplay()
	r.Append(testID, Event{Timestamp: 2, Data: []byte{2}})
	r.Append(testID, Event{Timestamp: 1, Data: []byte{1}})
	r.Append(testID, Event{Timestamp: 3, Data: []byte{3}})
	return r
}

func TestAppendKeepsOrder(t *testing.T) {
	r := newTestReplay()
	evs := r.Events(testID)
	require.Len(t, evs, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{evs[0].Timestamp, evs[1].Timestamp, evs[2].Timestamp})

	first, last := r.Bounds()
	assert.Equal(t, 1.0, first)
	assert.Equal(t, 3.0, last)
}

func TestLastMessageFollowsCursor(t *testing.T) {
	r := newTestReplay()
	assert.Empty(t, r.LastMessage(testID).Data)

	r.Seek(2.5)
	last := r.LastMessage(testID)
	assert.Equal(t, 2.0, last.Timestamp)
	assert.Equal(t, []byte{2}, last.Data)
	assert.Equal(t, 2, last.Count)
}

func TestSamplesInWindow(t *testing.T) {
	r := newTestReplay()
	evs := r.SamplesInWindow(testID, 1.5, 3)
	require.Len(t, evs, 2)
	assert.Equal(t, 2.0, evs[0].Timestamp)
	assert.Equal(t, 3.0, evs[1].Timestamp)

	assert.Empty(t, r.SamplesInWindow(testID, 4, 5))
	assert.Empty(t, r.SamplesInWindow(dbc.MessageID{Address: 1}, 0, 5))
}

func TestSeekNotifiesReceived(t *testing.T) {
	r := newTestReplay()
	other := dbc.MessageID{Address: 0x200}
	r.Append(other, Event{Timestamp: 10, Data: []byte{0}})

	var got []map[dbc.MessageID]struct{}
	r.Subscribe(func(ids map[dbc.MessageID]struct{}) { got = append(got, ids) })

	r.Seek(1.5)
	r.Seek(1.6)
	r.Seek(20)

	require.Len(t, got, 2)
	assert.Contains(t, got[0], testID)
	assert.Contains(t, got[1], testID)
	assert.Contains(t, got[1], other)
	assert.Equal(t, []dbc.MessageID{testID, other}, r.IDs())
}
