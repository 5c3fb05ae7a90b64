package hxtag

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// closeIconPath is the "×" glyph drawn by StyledActionIcon.
const closeIconPath = "M0.861278 0.862254C1.12163 0.601905 1.54374 0.601905 1.80409 0.862254L3.99935 3.05752L6.19461 0.862254C6.45496 0.601905 6.87707 0.601905 7.13742 0.862254C7.39777 1.1226 7.39777 1.54471 7.13742 1.80506L4.94216 4.00033L7.13742 6.19559C7.39777 6.45594 7.39777 6.87805 7.13742 7.1384C6.87707 7.39875 6.45496 7.39875 6.19461 7.1384L3.99935 4.94313L1.80409 7.1384C1.54374 7.39875 1.12163 7.39875 0.861278 7.1384C0.600928 6.87805 0.600928 6.45594 0.861278 6.19559L3.05654 4.00033L0.861278 1.80506C0.600928 1.54471 0.600928 1.1226 0.861278 0.862254Z"

// SlotAttr marks every built-in element with the slot it renders, so that
// substrates can map DOM event targets back to elements.
const SlotAttr = "data-hxtag-slot"

// StyledRoot is the built-in Root implementation: a <span> wrapping the
// label and the dismiss control.
func StyledRoot(attrs templ.Attributes, children templ.Component) templ.Component {
	return styledElement("span", SlotRoot, attrs, children)
}

// StyledText is the built-in Text implementation.
func StyledText(attrs templ.Attributes, children templ.Component) templ.Component {
	return styledElement("span", SlotText, attrs, children)
}

// StyledAction is the built-in Action implementation: the dismiss control.
func StyledAction(attrs templ.Attributes, children templ.Component) templ.Component {
	return styledElement("span", SlotAction, attrs, children)
}

// StyledActionIcon is the built-in ActionIcon implementation: an inline svg
// "×". children is ignored.
func StyledActionIcon(attrs templ.Attributes, _ templ.Component) templ.Component {
	path := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<path fill-rule="evenodd" clip-rule="evenodd" d="`+closeIconPath+`" fill="currentColor"></path>`)
		return err
	})
	return styledElement("svg", SlotActionIcon, attrs, path)
}

func styledElement(tag string, slot Slot, attrs templ.Attributes, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		paint := StyleResolverFrom(ctx).Resolve(slot, StateFromAttrs(attrs), styleFromAttrs(attrs))

		out := templ.Attributes{SlotAttr: slot.String()}
		mergeAttrs(out, attrs)
		if paint.Class != "" {
			out["class"] = joinClass(paint.Class, out["class"])
		}
		if css := paint.Style.String(); css != "" {
			out["style"] = joinStyle(css, out["style"])
		}
		if wire := wiringFrom(ctx); wire != nil {
			mergeAttrs(out, wire(slot, attrs))
		}

		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := writeAttrs(w, out); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

func joinClass(computed string, existing any) string {
	if s, ok := existing.(string); ok && s != "" {
		return computed + " " + s
	}
	return computed
}

func joinStyle(computed string, existing any) string {
	if s, ok := existing.(string); ok && s != "" {
		return computed + " " + s
	}
	return computed
}

// writeAttrs writes attrs as HTML attributes in key order.
//
// State bag keys and handlers are skipped. Booleans are presence attributes
// except for aria-* and data-* keys, which carry "true"/"false".
func writeAttrs(w io.Writer, attrs templ.Attributes) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		if strings.HasPrefix(k, "$") || !validAttrName(k) {
			continue
		}
		switch v := attrs[k].(type) {
		case nil, Handler, func(*Event):
			continue
		case bool:
			if strings.HasPrefix(k, "aria-") || strings.HasPrefix(k, "data-") {
				fmt.Fprintf(&sb, ` %s="%t"`, templ.EscapeString(k), v)
			} else if v {
				sb.WriteString(" " + templ.EscapeString(k))
			}
		default:
			fmt.Fprintf(&sb, ` %s="%s"`, templ.EscapeString(k), templ.EscapeString(fmt.Sprint(v)))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// validAttrName reports whether k can be written as a single HTML attribute
// name. Names that could close the tag or start another attribute are not.
func validAttrName(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if r <= ' ' || r == 0x7f || strings.ContainsRune("\"'<>/=`", r) {
			return false
		}
	}
	return true
}
