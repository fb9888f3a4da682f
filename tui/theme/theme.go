package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	renderer *lipgloss.Renderer

	error     lipgloss.TerminalColor
	accent    lipgloss.TerminalColor
	brand     lipgloss.TerminalColor
	body      lipgloss.TerminalColor
	border    lipgloss.TerminalColor
	highlight lipgloss.TerminalColor

	base lipgloss.Style
}

func BasicTheme(renderer *lipgloss.Renderer) Theme {
	base := renderer.NewStyle()

	return Theme{
		renderer:  renderer,
		error:     lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#FC8181"},
		accent:    lipgloss.AdaptiveColor{Light: "#2B6CB0", Dark: "#63B3ED"},
		brand:     lipgloss.AdaptiveColor{Light: "#6B46C1", Dark: "#B794F4"},
		body:      lipgloss.AdaptiveColor{Light: "#4A5568", Dark: "#A0AEC0"},
		border:    lipgloss.AdaptiveColor{Light: "#CBD5E0", Dark: "#4A5568"},
		highlight: lipgloss.AdaptiveColor{Light: "#2F855A", Dark: "#68D391"},
		base:      base,
	}
}

func (b Theme) Base() lipgloss.Style {
	return b.base
}

func (b Theme) TextAccent() lipgloss.Style {
	return b.Base().Foreground(b.accent)
}

func (b Theme) TextBrand() lipgloss.Style {
	return b.Base().Foreground(b.brand)
}

func (b Theme) TextBody() lipgloss.Style {
	return b.Base().Foreground(b.body)
}

func (b Theme) TextError() lipgloss.Style {
	return b.Base().Foreground(b.error)
}

func (b Theme) TextHighlight() lipgloss.Style {
	return b.Base().Foreground(b.highlight)
}

func (b Theme) Brand() lipgloss.TerminalColor {
	return b.brand
}

func (b Theme) Body() lipgloss.TerminalColor {
	return b.body
}

func (b Theme) Accent() lipgloss.TerminalColor {
	return b.accent
}

func (b Theme) Border() lipgloss.TerminalColor {
	return b.border
}

func (b Theme) Highlight() lipgloss.TerminalColor {
	return b.highlight
}
