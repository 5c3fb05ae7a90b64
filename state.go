package hxtag

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/agnivade/levenshtein"
)

// Kind selects the color family of a tag.
type Kind string

const (
	KindPrimary  Kind = "primary"
	KindNeutral  Kind = "neutral"
	KindAccent   Kind = "accent"
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindNegative Kind = "negative"
	KindBlack    Kind = "black"
	KindBlue     Kind = "blue"
	KindGreen    Kind = "green"
	KindRed      Kind = "red"
	KindYellow   Kind = "yellow"
	KindOrange   Kind = "orange"
	KindPurple   Kind = "purple"
	KindBrown    Kind = "brown"
	KindCustom   Kind = "custom"
)

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{
		KindPrimary, KindNeutral, KindAccent, KindPositive, KindWarning, KindNegative,
		KindBlack, KindBlue, KindGreen, KindRed, KindYellow, KindOrange, KindPurple, KindBrown,
		KindCustom,
	}
}

// Variant selects the fill style of a tag.
type Variant string

const (
	VariantLight    Variant = "light"
	VariantSolid    Variant = "solid"
	VariantOutlined Variant = "outlined"
)

// Variants lists every known variant.
func Variants() []Variant {
	return []Variant{VariantLight, VariantSolid, VariantOutlined}
}

// ParseKind converts a configuration string into a Kind. The empty string
// yields KindPrimary.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindPrimary, nil
	}
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		if string(k) == name {
			return k, nil
		}
		names = append(names, string(k))
	}
	return "", unknownName(ErrUnknownKind, name, names)
}

// ParseVariant converts a configuration string into a Variant. The empty
// string yields VariantLight.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return VariantLight, nil
	}
	names := make([]string, 0, len(Variants()))
	for _, v := range Variants() {
		if string(v) == name {
			return v, nil
		}
		names = append(names, string(v))
	}
	return "", unknownName(ErrUnknownVariant, name, names)
}

// unknownName wraps sentinel with a suggestion when a close match exists.
func unknownName(sentinel error, name string, known []string) error {
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(name, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return fmt.Errorf("%w: %q (did you mean %q?)", sentinel, name, best)
	}
	return fmt.Errorf("%w: %q", sentinel, name)
}

// Keys under which the shared state bag travels in slot configuration.
// They never reach the rendered markup.
const (
	KeyClickable      = "$clickable"
	KeyCloseable      = "$closeable"
	KeyColor          = "$color"
	KeyDisabled       = "$disabled"
	KeyIsFocused      = "$isFocused"
	KeyIsHovered      = "$isHovered"
	KeyKind           = "$kind"
	KeyVariant        = "$variant"
	KeyIsFocusVisible = "$isFocusVisible"
	KeyStyle          = "$style"
)

// State is the interaction state bag. It is recomputed on every render and
// handed, as one snapshot, to all four slots.
type State struct {
	Clickable      bool
	Closeable      bool
	Color          string
	Disabled       bool
	IsFocused      bool
	IsHovered      bool
	Kind           Kind
	Variant        Variant
	IsFocusVisible bool
}

// Interactive reports whether the tag takes part in keyboard navigation and
// is announced as a button.
func (s State) Interactive() bool {
	return (s.Clickable || s.Closeable) && !s.Disabled
}

// Attrs returns the state bag as slot configuration.
func (s State) Attrs() templ.Attributes {
	return templ.Attributes{
		KeyClickable:      s.Clickable,
		KeyCloseable:      s.Closeable,
		KeyColor:          s.Color,
		KeyDisabled:       s.Disabled,
		KeyIsFocused:      s.IsFocused,
		KeyIsHovered:      s.IsHovered,
		KeyKind:           s.Kind,
		KeyVariant:        s.Variant,
		KeyIsFocusVisible: s.IsFocusVisible,
	}
}

// StateFromAttrs reads the state bag back out of slot configuration.
// Missing or mistyped keys read as their zero value.
func StateFromAttrs(attrs templ.Attributes) State {
	b := func(k string) bool {
		v, _ := attrs[k].(bool)
		return v
	}
	s := State{
		Clickable:      b(KeyClickable),
		Closeable:      b(KeyCloseable),
		Disabled:       b(KeyDisabled),
		IsFocused:      b(KeyIsFocused),
		IsHovered:      b(KeyIsHovered),
		IsFocusVisible: b(KeyIsFocusVisible),
	}
	s.Color, _ = attrs[KeyColor].(string)
	switch k := attrs[KeyKind].(type) {
	case Kind:
		s.Kind = k
	case string:
		s.Kind = Kind(k)
	}
	switch v := attrs[KeyVariant].(type) {
	case Variant:
		s.Variant = v
	case string:
		s.Variant = Variant(v)
	}
	return s
}

// styleFromAttrs returns the style override carried in attrs, if any.
func styleFromAttrs(attrs templ.Attributes) Style {
	switch s := attrs[KeyStyle].(type) {
	case Style:
		return s
	case map[string]string:
		return Style(s)
	}
	return nil
}
