// Package termview renders tags in the terminal and drives them from
// keyboard and mouse input.
package termview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pthm/hxtag"
)

// Resolver maps a slot and the tag state bag to terminal paint. It is the
// terminal counterpart of hxtag.ClassResolver.
type Resolver struct {
	Palette map[hxtag.Kind]lipgloss.Color
}

// DefaultPalette returns the colors used for the named kinds.
func DefaultPalette() map[hxtag.Kind]lipgloss.Color {
	return map[hxtag.Kind]lipgloss.Color{
		hxtag.KindPrimary:  lipgloss.Color("#276ef1"),
		hxtag.KindNeutral:  lipgloss.Color("#757575"),
		hxtag.KindAccent:   lipgloss.Color("#7356bf"),
		hxtag.KindPositive: lipgloss.Color("#05944f"),
		hxtag.KindWarning:  lipgloss.Color("#ffc043"),
		hxtag.KindNegative: lipgloss.Color("#e11900"),
		hxtag.KindBlack:    lipgloss.Color("#000000"),
		hxtag.KindBlue:     lipgloss.Color("#276ef1"),
		hxtag.KindGreen:    lipgloss.Color("#05944f"),
		hxtag.KindRed:      lipgloss.Color("#e11900"),
		hxtag.KindYellow:   lipgloss.Color("#ffc043"),
		hxtag.KindOrange:   lipgloss.Color("#ff6937"),
		hxtag.KindPurple:   lipgloss.Color("#7356bf"),
		hxtag.KindBrown:    lipgloss.Color("#99644c"),
	}
}

// DefaultResolver returns a Resolver using DefaultPalette.
func DefaultResolver() Resolver {
	return Resolver{Palette: DefaultPalette()}
}

// Color returns the base color for the state: the custom Color for custom
// kinds, the palette entry otherwise.
func (r Resolver) Color(s hxtag.State) lipgloss.Color {
	if s.Kind == hxtag.KindCustom && s.Color != "" {
		return lipgloss.Color(s.Color)
	}
	if c, ok := r.Palette[s.Kind]; ok {
		return c
	}
	if s.Color != "" {
		return lipgloss.Color(s.Color)
	}
	return r.Palette[hxtag.KindPrimary]
}

// Style returns the paint for slot.
func (r Resolver) Style(slot hxtag.Slot, s hxtag.State) lipgloss.Style {
	color := r.Color(s)
	style := lipgloss.NewStyle()

	switch slot {
	case hxtag.SlotRoot:
		style = style.Padding(0, 1)
		switch s.Variant {
		case hxtag.VariantSolid:
			style = style.Background(color).Foreground(lipgloss.Color("#ffffff"))
		case hxtag.VariantOutlined:
			style = style.Border(lipgloss.RoundedBorder()).BorderForeground(color).Foreground(color)
		default:
			style = style.Foreground(color)
		}
		if s.IsFocusVisible {
			style = style.Bold(true).Underline(true)
		}
		if s.IsHovered {
			style = style.Reverse(true)
		}
		if s.Disabled {
			style = style.Faint(true)
		}
	case hxtag.SlotAction:
		style = style.PaddingLeft(1)
		if s.Disabled {
			style = style.Faint(true)
		}
	case hxtag.SlotText, hxtag.SlotActionIcon:
	}
	return style
}
