package hxtag

// EventType names a UI event routed through an element tree.
type EventType string

const (
	EventClick       EventType = "click"
	EventKeyDown     EventType = "keydown"
	EventFocus       EventType = "focus"
	EventBlur        EventType = "blur"
	EventPointerDown EventType = "pointerdown"
)

// Key values handled by the tag controller.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
)

// Handler reacts to an event dispatched through an element tree.
type Handler func(e *Event)

// Event is a single UI event travelling through an element tree.
//
// Target is the element the event originated at; CurrentTarget is the
// element whose handler is currently running and is only set during
// Element.Dispatch.
type Event struct {
	Type          EventType
	Key           string
	Target        *Element
	CurrentTarget *Element

	// FromKeyboard is set by the substrate when it knows the event was
	// caused by keyboard navigation (e.g. the browser matched :focus-visible).
	FromKeyboard bool

	// Modifier keys held during a keydown.
	Meta, Alt, Ctrl, Shift bool

	stopped  bool
	response *Response
}

// NewEvent creates an event of type t originating at target.
func NewEvent(t EventType, target *Element) *Event {
	return &Event{Type: t, Target: target}
}

// StopPropagation prevents the event from reaching ancestors of the
// element currently handling it.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether a handler consumed the event.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// SelfTargeted reports whether the event is being handled by the element it
// originated at, as opposed to having bubbled up from a nested child.
func (e *Event) SelfTargeted() bool {
	return e.Target != nil && e.Target == e.CurrentTarget
}

// Response returns the side effects handlers attached to this event. It is
// never nil.
func (e *Event) Response() *Response {
	if e.response == nil {
		e.response = &Response{}
	}
	return e.response
}

// Trigger asks the substrate to broadcast a client event once the event has
// been handled. Over HTMX this becomes an HX-Trigger header.
func (e *Event) Trigger(name string, data ...map[string]any) {
	e.Response().trigger(name, data...)
}

// Flash attaches a one-time notification to the response.
func (e *Event) Flash(level, message string) {
	e.Response().flashes = append(e.Response().flashes, Flash{Level: level, Message: message})
}

// Remove asks the substrate to drop the tag after this event, typically from
// an OnActionClick handler.
func (e *Event) Remove() {
	e.Response().removed = true
}

// handlerKey returns the configuration key carrying handlers for t, in the
// "onXxx" form used by element attributes.
func handlerKey(t EventType) string {
	switch t {
	case EventClick:
		return "onClick"
	case EventKeyDown:
		return "onKeyDown"
	case EventFocus:
		return "onFocus"
	case EventBlur:
		return "onBlur"
	case EventPointerDown:
		return "onPointerDown"
	default:
		return "on" + string(t)
	}
}

// asHandler converts a configuration value into a Handler.
func asHandler(v any) Handler {
	switch h := v.(type) {
	case Handler:
		return h
	case func(*Event):
		return h
	}
	return nil
}

// fork composes two handlers; first runs before then and neither can
// suppress the other.
func fork(first, then Handler) Handler {
	if first == nil {
		return then
	}
	return func(e *Event) {
		first(e)
		then(e)
	}
}
