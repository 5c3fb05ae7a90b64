// Package hxtag provides an interactive tag (chip) component for
// server-rendered Go applications using Templ templates and HTMX.
//
// A tag is a short label with an optional dismiss control. It can be
// clickable, closeable or both, and is fully keyboard operable: Enter
// activates a clickable tag, Backspace and Delete dismiss a closeable one.
//
// # Slots and Overrides
//
// A tag renders four fixed slots:
//
//	Root
//	├── Text
//	└── Action          (only when closeable)
//	    └── ActionIcon
//
// Each slot has a built-in implementation (StyledRoot, StyledText,
// StyledAction, StyledActionIcon). Callers customize a slot through an
// Override: replace the implementation, merge extra configuration into it,
// or both:
//
//	hxtag.New(hxtag.Props{
//	    Children: "golang",
//	    Overrides: hxtag.Overrides{
//	        Text:   hxtag.Replace(bold),
//	        Action: hxtag.Configure(templ.Attributes{"data-testid": "dismiss"}),
//	    },
//	})
//
// Every slot receives the same interaction state bag (clickable,
// closeable, disabled, kind, variant, focus visibility and so on) under
// "$"-prefixed configuration keys, so that replacements can style
// themselves consistently. These keys never reach the markup.
//
// # Events
//
// A render produces a tree of Elements. Events are dispatched on that tree
// and bubble from their target to the root, like DOM events. Handlers see
// the originating element in Event.Target and their own element in
// Event.CurrentTarget; the root keyboard handler ignores keydowns that
// bubbled up from nested content.
//
// Focus visibility follows keyboard navigation: a focus event caused by
// the keyboard shows a focus ring until the next blur. The decision is made
// by a FocusClassifier, by default a ModalityTracker.
//
// # HTMX
//
// A Host serves mounted tags over HTMX:
//
//	host := hxtag.NewHost(key)
//	id := host.Mount(tag)
//	http.Handle(hxtag.DefaultPrefix, host.Handler())
//
// Rendered through the host, every element with a handler posts its events
// back with a signed element reference. Handlers can broadcast client
// events, attach flash messages and remove the tag:
//
//	OnActionClick: func(e *hxtag.Event) {
//	    e.Remove()
//	    e.Trigger("tag:dismissed", map[string]any{"label": "golang"})
//	},
//
// CSRF protection is automatic: mutating requests must carry the
// HX-Request: true header that HTMX sends.
package hxtag
