package termview

import (
	"strings"

	"github.com/pthm/hxtag"
)

// closeGlyph stands in for the dismiss icon.
const closeGlyph = "×"

// View renders an element tree produced by hxtag.Tag.Build.
func View(el *hxtag.Element, r Resolver) string {
	return render(el, r, nil)
}

// render draws el; mark, when set, wraps the output of every slot so that
// callers can map screen regions back to elements.
func render(el *hxtag.Element, r Resolver, mark func(hxtag.Slot, string) string) string {
	if el == nil {
		return ""
	}

	var out string
	style := r.Style(el.Slot, el.State())
	switch el.Slot {
	case hxtag.SlotText:
		out = style.Render(hxtag.Flatten(el.Content))
	case hxtag.SlotActionIcon:
		out = style.Render(closeGlyph)
	default:
		parts := make([]string, 0, len(el.Children))
		for _, c := range el.Children {
			parts = append(parts, render(c, r, mark))
		}
		out = style.Render(strings.Join(parts, ""))
	}

	if mark != nil {
		out = mark(el.Slot, out)
	}
	return out
}
