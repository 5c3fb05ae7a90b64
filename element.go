package hxtag

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Element is one node of the structure produced by a render pass: a slot
// resolved to its implementation together with its merged configuration.
//
// Elements form the handle the rendering substrate works with. They render
// as templ components and route events through Dispatch.
type Element struct {
	Slot     Slot
	Part     Part
	Attrs    templ.Attributes
	Children []*Element

	// Content is the label content of a leaf element.
	Content any

	parent *Element
}

func newElement(slot Slot, res Resolved, attrs templ.Attributes, children ...*Element) *Element {
	el := &Element{
		Slot:     slot,
		Part:     res.Part,
		Attrs:    attrs,
		Children: children,
	}
	for _, c := range children {
		c.parent = el
	}
	return el
}

// Parent returns the enclosing element, or nil for the root.
func (el *Element) Parent() *Element {
	return el.parent
}

// Find returns the first element in the subtree (el included) rendering
// slot s, or nil.
func (el *Element) Find(s Slot) *Element {
	if el == nil {
		return nil
	}
	if el.Slot == s {
		return el
	}
	for _, c := range el.Children {
		if found := c.Find(s); found != nil {
			return found
		}
	}
	return nil
}

// State returns the state bag snapshot the element was rendered with.
func (el *Element) State() State {
	return StateFromAttrs(el.Attrs)
}

// Handler returns the handler attached for events of type t, or nil.
func (el *Element) Handler(t EventType) Handler {
	if el == nil {
		return nil
	}
	return asHandler(el.Attrs[handlerKey(t)])
}

// Dispatch routes e from its target up through the target's ancestors to
// el, running each attached handler with CurrentTarget set to the element
// that owns it. Propagation ends early once a handler calls
// StopPropagation. A nil Target means el itself.
//
// Dispatch reports whether any handler ran.
func (el *Element) Dispatch(e *Event) bool {
	if e.Target == nil {
		e.Target = el
	}
	handled := false
	for n := e.Target; n != nil; n = n.parent {
		if h := n.Handler(e.Type); h != nil {
			e.CurrentTarget = n
			h(e)
			handled = true
		}
		if e.stopped || n == el {
			break
		}
	}
	e.CurrentTarget = nil
	return handled
}

// Render implements templ.Component.
func (el *Element) Render(ctx context.Context, w io.Writer) error {
	var children templ.Component
	switch {
	case len(el.Children) > 0:
		children = joinElements(el.Children)
	case el.Content != nil:
		children = renderContent(el.Content)
	}
	return el.Part(el.Attrs, children).Render(ctx, w)
}

func joinElements(els []*Element) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range els {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
