package hxtag

import (
	"fmt"

	"github.com/a-h/templ"
)

// Part renders one slot of a tag.
//
// attrs is the fully merged configuration for the slot: the shared state
// bag (under "$"-prefixed keys), any extra configuration attached through an
// Override, computed accessibility attributes and event handlers. children
// is the already assembled content of the slot and may be nil.
//
// Custom parts typically delegate back to the default one after adjusting
// attrs:
//
//	bold := func(attrs templ.Attributes, children templ.Component) templ.Component {
//	    attrs["class"] = "font-bold"
//	    return hxtag.StyledText(attrs, children)
//	}
type Part func(attrs templ.Attributes, children templ.Component) templ.Component

type overrideShape uint8

const (
	shapeDefault overrideShape = iota
	shapeReplace
	shapeReplaceWithConfig
	shapeConfigure
)

// Override is the caller-supplied customization for one slot.
//
// The zero value keeps the built-in implementation and behaves exactly as if
// no override was given. Use Replace, ReplaceWithConfig, Configure or
// Restyle to build the other shapes:
//
//	hxtag.Overrides{
//	    Text:   hxtag.ReplaceWithConfig(bold, templ.Attributes{"data-role": "label"}),
//	    Action: hxtag.Restyle(hxtag.Style{"margin-left": "4px"}),
//	}
type Override struct {
	shape  overrideShape
	part   Part
	config templ.Attributes
	style  Style
}

// Replace swaps the slot implementation for part.
func Replace(part Part) Override {
	return Override{shape: shapeReplace, part: part}
}

// ReplaceWithConfig swaps the slot implementation for part and merges config
// into the slot configuration at render time.
func ReplaceWithConfig(part Part, config templ.Attributes) Override {
	return Override{shape: shapeReplaceWithConfig, part: part, config: config}
}

// Configure keeps the built-in implementation but merges config into the
// slot configuration at render time.
func Configure(config templ.Attributes) Override {
	return Override{shape: shapeConfigure, config: config}
}

// Restyle keeps the built-in implementation and hands style to the style
// resolver on top of the computed paint.
func Restyle(style Style) Override {
	return Override{}.WithStyle(style)
}

// WithStyle returns a copy of o carrying a style override.
func (o Override) WithStyle(style Style) Override {
	o.style = style
	return o
}

// IsDefault reports whether o leaves the slot untouched.
func (o Override) IsDefault() bool {
	return o.shape == shapeDefault && len(o.style) == 0
}

// Overrides holds the per-slot overrides of a tag.
type Overrides struct {
	Root       Override
	Text       Override
	Action     Override
	ActionIcon Override
}

// For returns the override registered for s.
func (o Overrides) For(s Slot) Override {
	switch s {
	case SlotRoot:
		return o.Root
	case SlotText:
		return o.Text
	case SlotAction:
		return o.Action
	case SlotActionIcon:
		return o.ActionIcon
	default:
		return Override{}
	}
}

// Resolved is the effective implementation of a slot together with the extra
// configuration to spread onto it.
type Resolved struct {
	Part   Part
	Config templ.Attributes
}

// Resolve returns the effective implementation for a slot given its
// override and built-in default.
//
// Absent overrides resolve to (def, {}), bare replacements to (part, {}) and
// replacements with configuration to (part, config). A style override is
// carried in the returned configuration under the "$style" key. Resolve has
// no side effects; each slot is resolved independently.
func Resolve(o Override, def Part) (Resolved, error) {
	if def == nil {
		return Resolved{}, fmt.Errorf("%w: no default implementation", ErrMalformedOverride)
	}

	var res Resolved
	switch o.shape {
	case shapeDefault:
		res = Resolved{Part: def, Config: templ.Attributes{}}
	case shapeReplace:
		if o.part == nil {
			return Resolved{}, fmt.Errorf("%w: replacement without implementation", ErrMalformedOverride)
		}
		res = Resolved{Part: o.part, Config: templ.Attributes{}}
	case shapeReplaceWithConfig:
		if o.part == nil {
			return Resolved{}, fmt.Errorf("%w: replacement without implementation", ErrMalformedOverride)
		}
		res = Resolved{Part: o.part, Config: copyAttrs(o.config)}
	case shapeConfigure:
		res = Resolved{Part: def, Config: copyAttrs(o.config)}
	default:
		return Resolved{}, fmt.Errorf("%w: unknown shape %d", ErrMalformedOverride, o.shape)
	}

	if len(o.style) > 0 {
		res.Config[KeyStyle] = o.style
	}
	return res, nil
}

// resolveSlot resolves the override for s against the built-in default and
// annotates errors with the slot name.
func resolveSlot(overrides Overrides, s Slot) (Resolved, error) {
	res, err := Resolve(overrides.For(s), defaultPart(s))
	if err != nil {
		return Resolved{}, fmt.Errorf("slot %s: %w", s, err)
	}
	return res, nil
}

func copyAttrs(src templ.Attributes) templ.Attributes {
	dst := make(templ.Attributes, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// mergeAttrs spreads src onto dst; keys in src win.
func mergeAttrs(dst, src templ.Attributes) {
	for k, v := range src {
		dst[k] = v
	}
}
