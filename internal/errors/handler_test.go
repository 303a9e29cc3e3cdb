package errors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/undo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind string
	msg  string
}

// mockColorOutput records every call.
type mockColorOutput struct {
	mu    sync.Mutex
	calls []call
}

func (m *mockColorOutput) record(kind string, msgs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := ""
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	m.calls = append(m.calls, call{kind, msg})
}

func (m *mockColorOutput) Error(msgs ...string)   { m.record("error", msgs) }
func (m *mockColorOutput) Warning(msgs ...string) { m.record("warning", msgs) }
func (m *mockColorOutput) Info(msgs ...string)    { m.record("info", msgs) }
func (m *mockColorOutput) Success(msgs ...string) { m.record("success", msgs) }

func TestCLIHandlerForwards(t *testing.T) {
	out := &mockColorOutput{}
	h := NewCLIHandler(out)

	h.Error("e")
	h.Warning("w")
	h.Info("i")
	h.Success("s")

	assert.Equal(t, []call{{"error", "e"}, {"warning", "w"}, {"info", "i"}, {"success", "s"}}, out.calls)
}

func TestNewDefaultCLIHandler(t *testing.T) {
	h := NewDefaultCLIHandler()
	require.NotNil(t, h)
	assert.IsType(t, &ColorsOutput{}, h.colors)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &signaltree.ValidationError{Field: "name", Value: "B", Err: signaltree.ErrNameCollision}, "warning"},
		{"range", fmt.Errorf("add: %w", dbc.ErrInvalidRange), "warning"},
		{"no message", signaltree.ErrNoMessage, "warning"},
		{"diverged", fmt.Errorf("undo: %w: %w", undo.ErrHistoryDiverged, dbc.ErrSignalNotFound), "error"},
		{"other", dbc.ErrMessageNotFound, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &mockColorOutput{}
			require.True(t, Report(NewCLIHandler(out), tt.err))
			require.Len(t, out.calls, 1)
			assert.Equal(t, tt.want, out.calls[0].kind)
			assert.Contains(t, out.calls[0].msg, tt.err.Error())
		})
	}

	out := &mockColorOutput{}
	assert.False(t, Report(NewCLIHandler(out), nil))
	assert.Empty(t, out.calls)
}

func TestTUIHandlerMessages(t *testing.T) {
	var seen []Message
	h := NewTUIHandler(func(msg Message) { seen = append(seen, msg) })

	_, ok := h.GetLatest()
	assert.False(t, ok)

	h.Error("failed")
	h.Warning("careful")
	h.Info("note")
	h.Success("saved")

	latest, ok := h.GetLatest()
	require.True(t, ok)
	assert.Equal(t, "saved", latest.Text)
	assert.Equal(t, MessageTypeSuccess, latest.Type)
	assert.False(t, latest.Timestamp.IsZero())

	all := h.GetAll()
	require.Len(t, all, 4)
	assert.Equal(t, []MessageType{MessageTypeError, MessageTypeWarning, MessageTypeInfo, MessageTypeSuccess},
		[]MessageType{all[0].Type, all[1].Type, all[2].Type, all[3].Type})
	assert.Len(t, seen, 4)

	h.Clear()
	assert.Empty(t, h.GetAll())
}

func TestTUIHandlerKeepsRecentMessages(t *testing.T) {
	h := NewTUIHandler(nil)
	for i := 0; i < maxTUIMessages+10; i++ {
		h.Info(fmt.Sprintf("msg %d", i))
	}
	all := h.GetAll()
	require.Len(t, all, maxTUIMessages)
	assert.Equal(t, "msg 10", all[0].Text)
}

func TestTUIHandlerConcurrentAccess(t *testing.T) {
	h := NewTUIHandler(nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				h.Info(fmt.Sprintf("%d-%d", n, j))
				h.GetLatest()
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, h.GetAll(), maxTUIMessages)
}
