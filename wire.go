package hxtag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// Wiring adds substrate-specific attributes to an element being rendered by
// one of the built-in parts. attrs is the element configuration, handlers
// included.
type Wiring func(slot Slot, attrs templ.Attributes) templ.Attributes

type wiringKey struct{}

// WithWiring returns a context whose renders pass every built-in element
// through w.
func WithWiring(ctx context.Context, w Wiring) context.Context {
	return context.WithValue(ctx, wiringKey{}, w)
}

func wiringFrom(ctx context.Context) Wiring {
	w, _ := ctx.Value(wiringKey{}).(Wiring)
	return w
}

// wiredEvents lists, in trigger order, the events the HTMX host listens for.
// Focus and blur stay client side: an outerHTML swap of the focused element
// would itself move focus. Browsers style keyboard focus through
// :focus-visible instead.
var wiredEvents = []EventType{EventClick, EventKeyDown}

// keyFilter limits posted keydowns to the keys the controller acts on.
const keyFilter = "[key=='Enter'||key=='Backspace'||key=='Delete']"

// WireAttrs builds the HTMX attributes that post the events handled by an
// element back to path.
//
// ref is the sealed element reference; the client adds the event type, the
// key, the keyboard-focus hint and the slot of the originating element:
//
//	hx-post="/_tag/4f1c.../event"
//	hx-trigger="click consume, keydown[key=='Enter'||...] consume"
//	hx-vals='js:{"p": "...", "event": event.type, ...}'
//	hx-target="closest [data-hxtag]"
//	hx-swap="outerHTML"
//
// "consume" keeps an element's event from also firing the handlers wired on
// its ancestors; the server routes propagation itself. It returns nil when
// no handler is attached.
func WireAttrs(path, ref string, handlers []EventType) templ.Attributes {
	if len(handlers) == 0 {
		return nil
	}

	triggers := make([]string, 0, len(handlers))
	for _, t := range handlers {
		if t == EventKeyDown {
			triggers = append(triggers, string(t)+keyFilter+" consume")
			continue
		}
		triggers = append(triggers, string(t)+" consume")
	}

	quoted, _ := json.Marshal(ref)
	vals := fmt.Sprintf(`js:{"p": %s, "event": event.type, "key": event.key || "", `+
		`"keyboard": !!(event.target.matches && event.target.matches(":focus-visible")), `+
		`"target": ((event.target.closest && event.target.closest("[%s]")) || {dataset: {}}).dataset.hxtagSlot || ""}`,
		quoted, SlotAttr)

	return templ.Attributes{
		"hx-post":    path,
		"hx-trigger": strings.Join(triggers, ", "),
		"hx-vals":    vals,
		"hx-target":  "closest [data-hxtag]",
		"hx-swap":    string(SwapOuter),
	}
}

// attachedHandlers lists the wired event types attrs carries handlers for.
func attachedHandlers(attrs templ.Attributes) []EventType {
	var out []EventType
	for _, t := range wiredEvents {
		if asHandler(attrs[handlerKey(t)]) != nil {
			out = append(out, t)
		}
	}
	return out
}
