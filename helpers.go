package hxtag

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response using the request's
// context.
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    hxtag.Render(w, r, gallery(host, ids))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted returns true if the request is a boosted navigation (hx-boost).
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// CurrentURL returns the URL the browser is on, from HX-Current-URL.
// Returns empty string for non-HTMX requests.
func CurrentURL(r *http.Request) string {
	return r.Header.Get("HX-Current-URL")
}

// TriggerID returns the id of the element that triggered the request, from
// HX-Trigger. Returns empty string if not present.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// BuildTriggerHeader builds the HX-Trigger header value for resp.
//
// Events without data are sent as a comma-separated list of names
// ("tag:clicked, tag:dismissed"). As soon as one event carries data the
// whole header switches to the JSON form, where data-less events map to
// true:
//
//	{"tag:clicked": true, "tag:dismissed": {"label": "go"}}
//
// HTMX fires each event with evt.detail set to its data.
func BuildTriggerHeader(resp *Response) string {
	if resp == nil || len(resp.triggers) == 0 {
		return ""
	}

	withData := false
	for _, name := range resp.triggers {
		if resp.triggerData[name] != nil {
			withData = true
			break
		}
	}

	if !withData {
		out := resp.triggers[0]
		for _, name := range resp.triggers[1:] {
			out += ", " + name
		}
		return out
	}

	merged := make(map[string]any, len(resp.triggers))
	for _, name := range resp.triggers {
		if data := resp.triggerData[name]; data != nil {
			merged[name] = data
		} else {
			merged[name] = true
		}
	}
	data, _ := json.Marshal(merged)
	return string(data)
}
