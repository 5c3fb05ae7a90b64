package hxtag

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// TestResult holds the output of a rendered tag or a dispatched event.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, events and flashes.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Flashes         []Flash
}

// TestRender renders t without HTMX wiring.
//
//	result, err := hxtag.TestRender(hxtag.New(hxtag.Props{Children: "go"}))
//	if !result.HTMLContains(`role="button"`) {
//	    t.Fatal("missing role")
//	}
func TestRender(t *Tag) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), t)
}

// TestRenderWithContext renders t with a custom context, e.g. one carrying a
// StyleResolver.
func TestRenderWithContext(ctx context.Context, t *Tag) (*TestResult, error) {
	var buf bytes.Buffer
	if err := t.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestEvent posts an event the way a browser would to the tag mounted as id.
//
// target is the slot the event originates at. The request is addressed to
// the closest element, target included, that handles typ, mirroring how the
// event bubbles to the nearest wired element in the page:
//
//	result, err := hxtag.TestEvent(host, id, hxtag.SlotRoot, hxtag.EventKeyDown, hxtag.KeyBackspace)
//	if !result.Removed() {
//	    t.Fatal("expected the tag to be dismissed")
//	}
func TestEvent(h *Host, id string, target Slot, typ EventType, key string) (*TestResult, error) {
	t, err := h.Tag(id)
	if err != nil {
		return nil, err
	}
	root, err := t.tree()
	if err != nil {
		return nil, err
	}

	listener := target
	for el := root.Find(target); el != nil; el = el.Parent() {
		if el.Handler(typ) != nil {
			listener = el.Slot
			break
		}
	}

	ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: listener.String()}, h.sensitive)
	if err != nil {
		return nil, err
	}

	return NewTestRequest(http.MethodPost, h.prefix+id+"/event").
		WithFormData("p", ref).
		WithFormData("event", string(typ)).
		WithFormData("key", key).
		WithFormData("target", target.String()).
		Execute(h)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// Removed checks if the response asked HTMX to delete the tag.
func (r *TestResult) Removed() bool {
	return r.Headers.Get("HX-Reswap") == string(SwapDelete)
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// parseTriggerHeader extracts event names, in order, from an HX-Trigger
// value in either the list or the JSON form.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		dec := json.NewDecoder(strings.NewReader(trigger))
		if _, err := dec.Token(); err != nil {
			return nil
		}
		var events []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return events
			}
			name, _ := tok.(string)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return events
			}
			events = append(events, name)
		}
		return events
	}

	var events []string
	for _, p := range strings.Split(trigger, ",") {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseFlashesFromHTML extracts the toasts rendered by RenderFlashesOOB.
func parseFlashesFromHTML(body string) []Flash {
	const prefix = `<div class="toast toast-`

	var flashes []Flash
	rest := body
	for {
		start := strings.Index(rest, prefix)
		if start == -1 {
			return flashes
		}
		rest = rest[start+len(prefix):]

		level, after, ok := strings.Cut(rest, `"`)
		if !ok {
			return flashes
		}
		_, after, ok = strings.Cut(after, ">")
		if !ok {
			return flashes
		}
		message, after, ok := strings.Cut(after, "</div>")
		if !ok {
			return flashes
		}

		flashes = append(flashes, Flash{
			Level:   html.UnescapeString(level),
			Message: html.UnescapeString(message),
		})
		rest = after
	}
}

// TestRequestBuilder builds a request against a Host.
//
//	result, err := hxtag.NewTestRequest("POST", "/_tag/"+id+"/event").
//	    WithFormData("p", "forged").
//	    Execute(host)
type TestRequestBuilder struct {
	method   string
	url      string
	formData url.Values
	headers  map[string]string
	ctx      context.Context
}

// NewTestRequest creates a new test request builder. Requests carry
// HX-Request: true unless overridden with WithHeader.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string][]string),
		headers:  map[string]string{"HX-Request": "true"},
		ctx:      context.Background(),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData.Set(key, value)
	return b
}

// WithHeader adds a header to the request. An empty value removes it.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute runs the request through h.Handler.
func (b *TestRequestBuilder) Execute(h *Host) (*TestResult, error) {
	req := httptest.NewRequest(b.method, b.url, strings.NewReader(b.formData.Encode()))
	req = req.WithContext(b.ctx)
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	result.Flashes = parseFlashesFromHTML(result.HTML)
	return result, nil
}
