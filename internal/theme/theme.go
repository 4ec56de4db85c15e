// Package theme provides the color themes for the branchsweep TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used in the application UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text on Accent background
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Cursor    lipgloss.Color
}

// Theme names.
const (
	DraculaName    = "dracula"
	NordName       = "nord"
	GruvboxName    = "gruvbox-dark"
	CleanLightName = "clean-light"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Cursor:    lipgloss.Color("#FF79C6"),
	}
}

// Nord returns a muted arctic theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		Border:    lipgloss.Color("#4C566A"),
		MutedFg:   lipgloss.Color("#616E88"),
		TextFg:    lipgloss.Color("#D8DEE9"),
		SuccessFg: lipgloss.Color("#A3BE8C"),
		WarnFg:    lipgloss.Color("#EBCB8B"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		Cursor:    lipgloss.Color("#81A1C1"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#83A598"),
		AccentFg:  lipgloss.Color("#282828"),
		Border:    lipgloss.Color("#665C54"),
		MutedFg:   lipgloss.Color("#928374"),
		TextFg:    lipgloss.Color("#EBDBB2"),
		SuccessFg: lipgloss.Color("#B8BB26"),
		WarnFg:    lipgloss.Color("#FABD2F"),
		ErrorFg:   lipgloss.Color("#FB4934"),
		Cursor:    lipgloss.Color("#D3869B"),
	}
}

// CleanLight returns a light theme with restrained colors.
func CleanLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#0969DA"),
		AccentFg:  lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#D0D7DE"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#059669"),
		WarnFg:    lipgloss.Color("#D97706"),
		ErrorFg:   lipgloss.Color("#DC2626"),
		Cursor:    lipgloss.Color("#8250DF"),
	}
}

var themes = map[string]func() *Theme{
	DraculaName:  Dracula,
	NordName:     Nord,
	GruvboxName:  GruvboxDark,
	CleanLightName: CleanLight,
}

// ForName returns the theme with the given name, or nil when unknown.
func ForName(name string) *Theme {
	if builder, ok := themes[name]; ok {
		return builder()
	}
	return nil
}

// Default returns the theme used when none is configured.
func Default() *Theme {
	return Dracula()
}

// AvailableThemes lists the known theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}
