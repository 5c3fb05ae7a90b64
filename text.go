package hxtag

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Fragment groups several pieces of label content.
type Fragment []any

// ContentNode is implemented by label content that wraps further content,
// so that its text can be recovered by Flatten.
type ContentNode interface {
	ContentChildren() any
}

// Span is nested label content rendered as a <span>.
//
//	hxtag.Props{Children: hxtag.Fragment{"v", hxtag.Span{Class: "ver", Children: "1.2"}}}
type Span struct {
	Class    string
	Children any
}

// ContentChildren implements ContentNode.
func (s Span) ContentChildren() any {
	return s.Children
}

// Render implements templ.Component.
func (s Span) Render(ctx context.Context, w io.Writer) error {
	open := "<span>"
	if s.Class != "" {
		open = `<span class="` + templ.EscapeString(s.Class) + `">`
	}
	if _, err := io.WriteString(w, open); err != nil {
		return err
	}
	if err := renderContent(s.Children).Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</span>")
	return err
}

// Flatten extracts the plain text of label content.
//
// Strings, numbers and fmt.Stringers contribute their text; Fragments,
// slices and ContentNodes are walked recursively; opaque templ components
// contribute nothing. Pieces are joined with single spaces.
func Flatten(children any) string {
	var parts []string
	flatten(children, &parts)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func flatten(v any, parts *[]string) {
	switch c := v.(type) {
	case nil:
	case string:
		if c != "" {
			*parts = append(*parts, c)
		}
	case Fragment:
		for _, child := range c {
			flatten(child, parts)
		}
	case []any:
		for _, child := range c {
			flatten(child, parts)
		}
	case []string:
		for _, child := range c {
			flatten(child, parts)
		}
	case ContentNode:
		flatten(c.ContentChildren(), parts)
	case fmt.Stringer:
		flatten(c.String(), parts)
	case int:
		*parts = append(*parts, strconv.Itoa(c))
	case int64:
		*parts = append(*parts, strconv.FormatInt(c, 10))
	case float64:
		*parts = append(*parts, strconv.FormatFloat(c, 'f', -1, 64))
	}
}

// renderContent turns label content into a component.
func renderContent(v any) templ.Component {
	switch c := v.(type) {
	case nil:
		return templ.NopComponent
	case templ.Component:
		return c
	case Fragment:
		return renderFragment([]any(c))
	case []any:
		return renderFragment(c)
	}
	text := Flatten(v)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(text))
		return err
	})
}

func renderFragment(children []any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if err := renderContent(child).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
