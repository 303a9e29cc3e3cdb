package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/errors"
	"github.com/stretchr/testify/assert"
)

func testStyles() Styles {
	return NewStyles(colors.DarkTheme)
}

func TestHeader(t *testing.T) {
	out := Header(testStyles(), HeaderState{
		MessageName: "ENGINE",
		MessageID:   "0:1f0",
		Filter:      "spd",
		Range:       15,
		Time:        2.5,
		Modified:    true,
		Width:       100,
	})
	assert.Contains(t, out, "ENGINE (0:1f0) *")
	assert.Contains(t, out, `filter "spd"`)
	assert.Contains(t, out, "t=2.5s  range 15s")
	assert.Equal(t, 100, lipgloss.Width(out))
}

func TestSignalRow(t *testing.T) {
	tests := []struct {
		name     string
		state    SignalRowState
		contains []string
	}{
		{
			name:     "collapsed",
			state:    SignalRowState{Name: "SPEED", Value: "50 km/h", Sparkline: "▁▃█", Width: 80},
			contains: []string{collapsedSymbol + " SPEED", "50 km/h", "▁▃█", swatch},
		},
		{
			name:     "expanded and selected",
			state:    SignalRowState{Name: "GEAR", Expanded: true, Selected: true, Width: 80},
			contains: []string{expandedSymbol + " GEAR"},
		},
		{
			name:     "long name is truncated",
			state:    SignalRowState{Name: strings.Repeat("X", 40), Width: 80},
			contains: []string{strings.Repeat("X", nameWidth-3) + "..."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SignalRow(testStyles(), tt.state)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			assert.Equal(t, 80, lipgloss.Width(out))
		})
	}
}

func TestPropertyRow(t *testing.T) {
	out := PropertyRow(testStyles(), PropertyRowState{Title: "Factor", Value: "0.5", Editable: true, Width: 60})
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", propertyIndent)+"Factor"), out)
	assert.Contains(t, out, "0.5")
	assert.Equal(t, 60, lipgloss.Width(out))

	out = PropertyRow(testStyles(), PropertyRowState{Title: "Extra Info", Group: true, Expanded: true, Width: 60})
	assert.Contains(t, out, expandedSymbol+" Extra Info")

	out = PropertyRow(testStyles(), PropertyRowState{Title: "Unit", Value: "km/h", Nested: true, Editable: true, Width: 60})
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", propertyIndent+2)+"Unit"), out)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		msg  errors.Message
		want string
	}{
		{errors.Message{Text: "boom", Type: errors.MessageTypeError}, "Error: boom"},
		{errors.Message{Text: "careful", Type: errors.MessageTypeWarning}, "Warning: careful"},
		{errors.Message{Text: "saved", Type: errors.MessageTypeSuccess}, "saved"},
		{errors.Message{Text: "undo", Type: errors.MessageTypeInfo}, "undo"},
		{errors.Message{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.msg.Type.String()+tt.want, func(t *testing.T) {
			assert.Contains(t, Status(testStyles(), tt.msg), tt.want)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
	assert.Equal(t, "温度...", truncate("温度センサー", 7))
}
