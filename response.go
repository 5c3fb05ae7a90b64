package hxtag

// Response collects the side effects requested by handlers while an event
// was dispatched. The substrate applies them once dispatch returns.
//
// Handlers never build a Response directly; they call Event.Trigger,
// Event.Flash and Event.Remove:
//
//	OnActionClick: func(e *hxtag.Event) {
//	    e.Remove()
//	    e.Trigger("tag:dismissed", map[string]any{"label": "go"})
//	    e.Flash(hxtag.FlashInfo, "Removed go")
//	},
type Response struct {
	triggers    []string
	triggerData map[string]map[string]any
	flashes     []Flash
	removed     bool
	headers     map[string]string
}

func (r *Response) trigger(name string, data ...map[string]any) {
	if name == "" {
		return
	}
	if r.triggerData == nil {
		r.triggerData = make(map[string]map[string]any)
	}
	if _, seen := r.triggerData[name]; !seen {
		r.triggers = append(r.triggers, name)
	}
	var payload map[string]any
	if len(data) > 0 {
		payload = data[0]
	}
	r.triggerData[name] = payload
}

// Header sets a custom response header.
func (r *Response) Header(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
}

// Triggers returns the broadcast event names in the order they were first
// requested.
func (r *Response) Triggers() []string {
	return r.triggers
}

// TriggerData returns the payload attached to a broadcast event, or nil.
func (r *Response) TriggerData(name string) map[string]any {
	return r.triggerData[name]
}

// Flashes returns the flash messages.
func (r *Response) Flashes() []Flash {
	return r.flashes
}

// Removed reports whether a handler asked for the tag to be dropped.
func (r *Response) Removed() bool {
	return r.removed
}

// Headers returns the custom response headers.
func (r *Response) Headers() map[string]string {
	return r.headers
}

// IsZero reports whether no side effect was requested.
func (r *Response) IsZero() bool {
	return r == nil || (len(r.triggers) == 0 && len(r.flashes) == 0 && !r.removed && len(r.headers) == 0)
}
