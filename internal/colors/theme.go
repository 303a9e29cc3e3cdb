package colors

import "strings"

// Theme is a palette of hex colors.
type Theme struct {
	Name            string
	Window          string
	Text            string
	Base            string
	Highlight       string
	HighlightedText string
	Disabled        string
}

var (
	// DarkTheme is a "Darcula" like palette.
	DarkTheme = Theme{
		Name:            "dark",
		Window:          "#353535",
		Text:            "#bbbbbb",
		Base:            "#3c3f41",
		Highlight:       "#2f65ca",
		HighlightedText: "#bbbbbb",
		Disabled:        "#777777",
	}
	LightTheme = Theme{
		Name:            "light",
		Window:          "#efefef",
		Text:            "#000000",
		Base:            "#ffffff",
		Highlight:       "#308cc6",
		HighlightedText: "#ffffff",
		Disabled:        "#bebebe",
	}
)

// ThemeByName returns the named theme, falling back to dark.
func ThemeByName(name string) Theme {
	if strings.EqualFold(name, LightTheme.Name) {
		return LightTheme
	}
	return DarkTheme
}
