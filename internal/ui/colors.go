package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorRed      = "#E51013"
	colorBlack    = "#141414"
	colorSurface  = "#181818"
	colorBorder   = "#2F2F2F"
	colorWhite    = "#FFFFFF"
	colorMuted    = "#808080"
	colorWarn     = "#FFA500"
	colorPositive = "#46D369"
)

var styles = NewPalette(colorRed, colorPositive, colorRed, colorWarn, colorMuted)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style

	banner      lipgloss.Style
	bannerTitle lipgloss.Style
	tile        lipgloss.Style
	tileFocused lipgloss.Style
	tileMoving  lipgloss.Style
	overlay     lipgloss.Style
	muted       lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),

		banner: lipgloss.NewStyle().
			Background(lipgloss.Color(colorBlack)).
			Foreground(lipgloss.Color(colorWhite)).
			Padding(1, 2),
		bannerTitle: NewBold(colorWhite).Background(lipgloss.Color(colorBlack)),
		tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Foreground(lipgloss.Color(colorWhite)).
			Padding(0, 1),
		tileFocused: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(t)).
			Foreground(lipgloss.Color(colorWhite)).
			Bold(true).
			Padding(0, 1),
		tileMoving: lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Foreground(lipgloss.Color(colorBorder)).
			Padding(0, 1),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(t)).
			Background(lipgloss.Color(colorSurface)).
			Foreground(lipgloss.Color(colorWhite)).
			Padding(1, 2),
		muted: NewStyle(h),
	}
}

// On renders s on a bg background.
func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(s)
}

// As renders s in fg.
func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
