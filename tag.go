package hxtag

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Props configures a tag for one render. Props are never mutated by the
// component.
type Props struct {
	// Children is the label: a string, a number, a Fragment, a Span or any
	// templ.Component.
	Children any

	// Closeable shows the dismiss control. Nil means true.
	Closeable *bool

	Color     string
	Disabled  bool
	IsFocused bool
	IsHovered bool
	Kind      Kind    // defaults to KindPrimary
	Variant   Variant // defaults to VariantLight

	// Title overrides the tooltip text, which otherwise is the flattened
	// label.
	Title string

	OnActionClick   Handler
	OnActionKeyDown Handler
	OnClick         Handler
	OnKeyDown       Handler

	Overrides Overrides
}

// Bool returns a pointer to v, for Props.Closeable.
func Bool(v bool) *bool {
	return &v
}

// IsCloseable reports whether the dismiss control is shown.
func (p Props) IsCloseable() bool {
	return p.Closeable == nil || *p.Closeable
}

func (p Props) kind() Kind {
	if p.Kind == "" {
		return KindPrimary
	}
	return p.Kind
}

func (p Props) variant() Variant {
	if p.Variant == "" {
		return VariantLight
	}
	return p.Variant
}

// Tag is the tag controller. It owns the focus-visibility flag of one
// component instance and turns Props into an element tree on every render.
//
//	t := hxtag.New(hxtag.Props{
//	    Children: "golang",
//	    OnClick:  func(e *hxtag.Event) { ... },
//	    OnActionClick: func(e *hxtag.Event) { e.Remove() },
//	})
//	err := t.Render(ctx, w)
//
// A Tag is not safe for concurrent use; substrates serialize access.
type Tag struct {
	props      Props
	classifier FocusClassifier
	focus      focusVisibility
	root       *Element
	stale      bool
}

// Option configures a Tag.
type Option func(*Tag)

// WithFocusClassifier replaces the default ModalityTracker.
func WithFocusClassifier(c FocusClassifier) Option {
	return func(t *Tag) {
		if c != nil {
			t.classifier = c
		}
	}
}

// New creates a tag instance with initial props.
func New(props Props, opts ...Option) *Tag {
	t := &Tag{props: props, classifier: &ModalityTracker{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetProps replaces the props used by the next render. The next Dispatch
// rebuilds the tree first, so handlers never see the previous props; an
// event aimed at an element of the older tree is routed to the same slot of
// the new one.
func (t *Tag) SetProps(props Props) {
	t.props = props
	t.stale = true
}

// Props returns the current props.
func (t *Tag) Props() Props {
	return t.props
}

// FocusVisible reports whether the tag currently shows a focus ring.
func (t *Tag) FocusVisible() bool {
	return t.focus.visible
}

// State derives the interaction state bag from the current props and focus
// visibility.
func (t *Tag) State() State {
	p := t.props
	return State{
		Clickable:      p.OnClick != nil,
		Closeable:      p.IsCloseable(),
		Color:          p.Color,
		Disabled:       p.Disabled,
		IsFocused:      p.IsFocused,
		IsHovered:      p.IsHovered,
		Kind:           p.kind(),
		Variant:        p.variant(),
		IsFocusVisible: t.focus.visible,
	}
}

// Ref returns the root element of the last render, or nil before the first
// one.
func (t *Tag) Ref() *Element {
	return t.root
}

// Build runs a render pass and returns the resulting element tree. It fails
// with ErrMalformedOverride when an override cannot be resolved.
func (t *Tag) Build() (*Element, error) {
	p := t.props
	state := t.State()
	shared := state.Attrs()

	var resolved [4]Resolved
	for _, s := range Slots() {
		res, err := resolveSlot(p.Overrides, s)
		if err != nil {
			return nil, err
		}
		resolved[s] = res
	}

	text := newElement(SlotText, resolved[SlotText], t.textAttrs(p, shared, resolved[SlotText].Config))
	text.Content = p.Children

	children := []*Element{text}
	if state.Closeable {
		icon := newElement(SlotActionIcon, resolved[SlotActionIcon], iconAttrs(shared, resolved[SlotActionIcon].Config))
		action := newElement(SlotAction, resolved[SlotAction], t.actionAttrs(p, shared, resolved[SlotAction].Config), icon)
		children = append(children, action)
	}

	root := newElement(SlotRoot, resolved[SlotRoot], t.rootAttrs(p, state, shared, resolved[SlotRoot].Config), children...)
	t.root = root
	t.stale = false
	return root, nil
}

// tree returns the tree of the last render, building a new one when there
// is none or the props changed since.
func (t *Tag) tree() (*Element, error) {
	if t.root == nil || t.stale {
		return t.Build()
	}
	return t.root, nil
}

// Render implements templ.Component.
func (t *Tag) Render(ctx context.Context, w io.Writer) error {
	root, err := t.Build()
	if err != nil {
		return err
	}
	return root.Render(ctx, w)
}

// Dispatch routes e through the tree of the last render, building one first
// if needed or if SetProps was called since. A nil Target means the root.
// Classifiers implementing ModalityObserver see every event before it is
// routed. An event aimed at a slot the current props no longer render is
// dropped.
func (t *Tag) Dispatch(e *Event) (bool, error) {
	fresh := t.root == nil || t.stale
	root, err := t.tree()
	if err != nil {
		return false, err
	}
	if fresh && e.Target != nil {
		if e.Target = root.Find(e.Target.Slot); e.Target == nil {
			return false, nil
		}
	}
	if obs, ok := t.classifier.(ModalityObserver); ok {
		obs.Observe(e)
	}
	return root.Dispatch(e), nil
}

func (t *Tag) rootAttrs(p Props, state State, shared, extra templ.Attributes) templ.Attributes {
	interactive := state.Interactive()

	attrs := templ.Attributes{"data-hxtag": "tag"}
	if interactive {
		attrs["role"] = "button"
		attrs["tabindex"] = 0
		if state.Closeable {
			attrs["aria-label"] = closeLabel(p.Children)
		}
	}
	if state.Disabled {
		attrs["aria-disabled"] = true
	}

	if !state.Disabled {
		if p.OnClick != nil {
			attrs[handlerKey(EventClick)] = p.OnClick
		}
		attrs[handlerKey(EventKeyDown)] = keyDownHandler(p)
	}

	mergeAttrs(attrs, shared)
	mergeAttrs(attrs, extra)

	attrs[handlerKey(EventFocus)] = fork(asHandler(extra[handlerKey(EventFocus)]), t.handleFocus)
	attrs[handlerKey(EventBlur)] = fork(asHandler(extra[handlerKey(EventBlur)]), t.handleBlur)
	return attrs
}

func (t *Tag) textAttrs(p Props, shared, extra templ.Attributes) templ.Attributes {
	title := p.Title
	if title == "" {
		title = Flatten(p.Children)
	}
	attrs := templ.Attributes{"title": title}
	mergeAttrs(attrs, shared)
	mergeAttrs(attrs, extra)
	return attrs
}

func (t *Tag) actionAttrs(p Props, shared, extra templ.Attributes) templ.Attributes {
	attrs := templ.Attributes{
		"aria-hidden": true,
		"role":        "presentation",
	}
	if !p.Disabled {
		onActionClick := p.OnActionClick
		attrs[handlerKey(EventClick)] = Handler(func(e *Event) {
			// The action sits inside the root: a dismiss is never an activation.
			e.StopPropagation()
			if onActionClick != nil {
				onActionClick(e)
			}
		})
	}
	mergeAttrs(attrs, shared)
	mergeAttrs(attrs, extra)
	return attrs
}

func iconAttrs(shared, extra templ.Attributes) templ.Attributes {
	attrs := templ.Attributes{
		"width":   "10",
		"height":  "10",
		"viewBox": "0 0 8 8",
		"fill":    "none",
		"xmlns":   "http://www.w3.org/2000/svg",
	}
	mergeAttrs(attrs, shared)
	mergeAttrs(attrs, extra)
	return attrs
}

// closeLabel hints assistive technology that Backspace and Delete dismiss
// the tag. Only plain string labels are repeated.
func closeLabel(children any) string {
	if s, ok := children.(string); ok {
		return s + ", close by backspace"
	}
	return "close by backspace"
}

func (t *Tag) handleFocus(e *Event) {
	t.focus.focus(t.classifier, e)
}

func (t *Tag) handleBlur(e *Event) {
	t.focus.blur()
}

// keyDownHandler normalizes keyboard input on the root. Keydowns bubbling up
// from nested content are dropped, the caller's OnKeyDown included.
func keyDownHandler(p Props) Handler {
	closeable := p.IsCloseable()
	return func(e *Event) {
		if !e.SelfTargeted() {
			return
		}
		if p.OnClick != nil && e.Key == KeyEnter {
			p.OnClick(e)
		}
		if closeable && (e.Key == KeyBackspace || e.Key == KeyDelete) {
			if p.OnActionClick != nil {
				p.OnActionClick(e)
			}
			if p.OnActionKeyDown != nil {
				p.OnActionKeyDown(e)
			}
		}
		if p.OnKeyDown != nil {
			p.OnKeyDown(e)
		}
	}
}
