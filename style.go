package hxtag

import (
	"context"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Style is a set of CSS declarations.
type Style map[string]string

// Merge returns a new Style with o's declarations applied over s.
func (s Style) Merge(o Style) Style {
	out := make(Style, len(s)+len(o))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// String renders the declarations in key order, e.g. "color: red; margin: 0;".
//
// Every declaration goes through templ.SanitizeCSS: a value that could close
// the declaration or call a CSS function is replaced with an inert
// placeholder, as is a property that is not a plain identifier.
func (s Style) String() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		decl := strings.TrimSuffix(string(templ.SanitizeCSS(k, s[k])), ";")
		property, value, _ := strings.Cut(decl, ":")
		sb.WriteString(property)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// Paint is the visual treatment computed for one slot.
type Paint struct {
	Class string
	Style Style
}

// StyleResolver turns a slot and the current state bag into paint. The
// override is the style attached through Restyle or Override.WithStyle and
// should be applied last.
type StyleResolver interface {
	Resolve(slot Slot, state State, override Style) Paint
}

// StyleResolverFunc adapts a function to StyleResolver.
type StyleResolverFunc func(slot Slot, state State, override Style) Paint

// Resolve calls f.
func (f StyleResolverFunc) Resolve(slot Slot, state State, override Style) Paint {
	return f(slot, state, override)
}

// ClassResolver is the default StyleResolver. It emits BEM classes under
// Prefix (default "hxtag") and leaves the actual paint to a stylesheet:
//
//	hxtag hxtag--kind-primary hxtag--variant-light hxtag--closeable
//	hxtag__text
//	hxtag__action
//	hxtag__icon
//
// A tag Color is exposed as the --hxtag-color custom property on the root.
type ClassResolver struct {
	Prefix string
}

// Resolve implements StyleResolver.
func (r ClassResolver) Resolve(slot Slot, state State, override Style) Paint {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "hxtag"
	}

	var classes []string
	var style Style
	switch slot {
	case SlotRoot:
		classes = append(classes, prefix)
		if state.Kind != "" {
			classes = append(classes, prefix+"--kind-"+string(state.Kind))
		}
		if state.Variant != "" {
			classes = append(classes, prefix+"--variant-"+string(state.Variant))
		}
		for _, mod := range []struct {
			on   bool
			name string
		}{
			{state.Clickable, "clickable"},
			{state.Closeable, "closeable"},
			{state.Disabled, "disabled"},
			{state.IsFocused, "focused"},
			{state.IsHovered, "hovered"},
			{state.IsFocusVisible, "focus-visible"},
		} {
			if mod.on {
				classes = append(classes, prefix+"--"+mod.name)
			}
		}
		if state.Color != "" {
			style = Style{"--" + prefix + "-color": state.Color}
		}
	case SlotText:
		classes = append(classes, prefix+"__text")
	case SlotAction:
		classes = append(classes, prefix+"__action")
		if state.Disabled {
			classes = append(classes, prefix+"__action--disabled")
		}
	case SlotActionIcon:
		classes = append(classes, prefix+"__icon")
	}

	if len(override) > 0 {
		style = style.Merge(override)
	}
	return Paint{Class: strings.Join(classes, " "), Style: style}
}

type styleResolverKey struct{}

// WithStyleResolver returns a context whose renders use r for the built-in
// parts.
func WithStyleResolver(ctx context.Context, r StyleResolver) context.Context {
	return context.WithValue(ctx, styleResolverKey{}, r)
}

// StyleResolverFrom returns the resolver installed in ctx, or a
// ClassResolver.
func StyleResolverFrom(ctx context.Context) StyleResolver {
	if r, ok := ctx.Value(styleResolverKey{}).(StyleResolver); ok && r != nil {
		return r
	}
	return ClassResolver{}
}
