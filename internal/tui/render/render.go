// Package render draws the rows of the signal editor.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/errors"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

const (
	nameWidth           = 28
	valueWidth          = 18
	propertyIndent      = 4
	collapsedSymbol     = "▸"
	expandedSymbol      = "▾"
	defaultWidth        = 80
	swatch              = "■"
	highlightDarkFactor = 0.7
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Header    lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Disabled  lipgloss.Style
	Footer    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
	Sparkline lipgloss.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme colors.Theme) Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Highlight)),
		Row:       lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text)),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color(theme.Highlight)).Foreground(lipgloss.Color(theme.HighlightedText)),
		Disabled:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Disabled)),
		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Disabled)),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c07b")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#61afef")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#98c379")),
		Sparkline: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text)),
	}
}

// HeaderState defines the inputs needed to render the title line.
type HeaderState struct {
	MessageName string
	MessageID   string
	Filter      string
	Range       int
	Time        float64
	Modified    bool
	Width       int
}

// Header renders the title line.
func Header(styles Styles, state HeaderState) string {
	title := fmt.Sprintf("%s (%s)", state.MessageName, state.MessageID)
	if state.Modified {
		title += " *"
	}
	info := fmt.Sprintf("t=%.1fs  range %ds", state.Time, state.Range)
	if state.Filter != "" {
		info = fmt.Sprintf("filter %q  %s", state.Filter, info)
	}
	return styles.Header.Render(padBetween(title, info, widthOr(state.Width)))
}

// SignalRowState defines the inputs needed to render a signal row.
type SignalRowState struct {
	Name      string
	Value     string
	Sparkline string
	Color     colorful.Color
	Expanded  bool
	Highlight bool
	Selected  bool
	Width     int
}

// SignalRow renders a signal row: expand marker, color swatch, name,
// decoded value and sparkline.
func SignalRow(styles Styles, state SignalRowState) string {
	symbol := collapsedSymbol
	if state.Expanded {
		symbol = expandedSymbol
	}
	c := state.Color
	if state.Highlight {
		c = colors.Darker(c, highlightDarkFactor)
	}
	sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(swatch)

	text := fmt.Sprintf("%s %-*s %*s  ", symbol, nameWidth, truncate(state.Name, nameWidth), valueWidth, truncate(state.Value, valueWidth))
	text = fitWidth(text+state.Sparkline, widthOr(state.Width)-2)
	if state.Selected {
		return sw + " " + styles.Selected.Render(text)
	}
	return sw + " " + styles.Row.Render(text)
}

// PropertyRowState defines the inputs needed to render a property row.
type PropertyRowState struct {
	Title    string
	Value    string
	Group    bool
	Expanded bool
	Nested   bool
	Editable bool
	Selected bool
	Width    int
}

// PropertyRow renders one property of an expanded signal.
func PropertyRow(styles Styles, state PropertyRowState) string {
	indent := propertyIndent
	if state.Nested {
		indent += 2
	}
	title := state.Title
	if state.Group {
		symbol := collapsedSymbol
		if state.Expanded {
			symbol = expandedSymbol
		}
		title = symbol + " " + title
	}
	text := fmt.Sprintf("%s%-*s %s", strings.Repeat(" ", indent), nameWidth-indent+2, title, state.Value)
	text = fitWidth(text, widthOr(state.Width))
	switch {
	case state.Selected:
		return styles.Selected.Render(text)
	case !state.Editable && !state.Group:
		return styles.Disabled.Render(text)
	}
	return styles.Row.Render(text)
}

// Status renders a status message with a type prefix.
func Status(styles Styles, msg errors.Message) string {
	if msg.Text == "" {
		return ""
	}
	switch msg.Type {
	case errors.MessageTypeError:
		return styles.Error.Render("Error: " + msg.Text)
	case errors.MessageTypeWarning:
		return styles.Warning.Render("Warning: " + msg.Text)
	case errors.MessageTypeSuccess:
		return styles.Success.Render(msg.Text)
	}
	return styles.Info.Render(msg.Text)
}

// Empty renders the placeholder shown when there are no rows.
func Empty(styles Styles, filtered bool) string {
	if filtered {
		return styles.Disabled.Render("No signals match the filter")
	}
	return styles.Disabled.Render("No signals. Press a to add one")
}

func widthOr(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return width
}

func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// truncate shortens s to width cells, marking the cut with "...".
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}
