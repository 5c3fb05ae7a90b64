package hxtag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTMX(t *testing.T) {
	tests := []struct {
		name   string
		header string
		expect bool
	}{
		{"with HX-Request true", "true", true},
		{"with HX-Request false", "false", false},
		{"without header", "", false},
		{"with other value", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}

			if result := IsHTMX(req); result != tt.expect {
				t.Errorf("IsHTMX() = %v, want %v", result, tt.expect)
			}
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsBoosted(req) {
		t.Error("IsBoosted() = true without header")
	}
	if got := CurrentURL(req); got != "" {
		t.Errorf("CurrentURL() = %q, want empty", got)
	}

	if got := TriggerID(req); got != "" {
		t.Errorf("TriggerID() = %q, want empty", got)
	}

	req.Header.Set("HX-Trigger", "tag-1")
	req.Header.Set("HX-Boosted", "true")
	req.Header.Set("HX-Current-URL", "http://example.com/tags")
	if !IsBoosted(req) {
		t.Error("IsBoosted() = false, want true")
	}
	if got := CurrentURL(req); got != "http://example.com/tags" {
		t.Errorf("CurrentURL() = %q, want %q", got, "http://example.com/tags")
	}
	if got := TriggerID(req); got != "tag-1" {
		t.Errorf("TriggerID() = %q, want %q", got, "tag-1")
	}
}

func TestBuildTriggerHeader(t *testing.T) {
	tests := []struct {
		name   string
		events func(e *Event)
		expect string
	}{
		{
			name:   "no triggers",
			events: func(e *Event) {},
			expect: "",
		},
		{
			name:   "single event",
			events: func(e *Event) { e.Trigger("tag:clicked") },
			expect: "tag:clicked",
		},
		{
			name: "several events keep order",
			events: func(e *Event) {
				e.Trigger("tag:clicked")
				e.Trigger("tag:dismissed")
				e.Trigger("tag:clicked")
			},
			expect: "tag:clicked, tag:dismissed",
		},
		{
			name:   "empty name ignored",
			events: func(e *Event) { e.Trigger("") },
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvent(EventClick, nil)
			tt.events(e)
			if got := BuildTriggerHeader(e.Response()); got != tt.expect {
				t.Errorf("BuildTriggerHeader() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestBuildTriggerHeaderWithData(t *testing.T) {
	e := NewEvent(EventClick, nil)
	e.Trigger("tag:clicked")
	e.Trigger("tag:dismissed", map[string]any{"label": "go"})

	header := BuildTriggerHeader(e.Response())

	var parsed map[string]any
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("BuildTriggerHeader() = %q, not JSON: %v", header, err)
	}
	if parsed["tag:clicked"] != true {
		t.Errorf("tag:clicked = %v, want true", parsed["tag:clicked"])
	}
	data, ok := parsed["tag:dismissed"].(map[string]any)
	if !ok || data["label"] != "go" {
		t.Errorf("tag:dismissed = %v, want {label: go}", parsed["tag:dismissed"])
	}
}

func TestBuildTriggerHeaderNil(t *testing.T) {
	if got := BuildTriggerHeader(nil); got != "" {
		t.Errorf("BuildTriggerHeader(nil) = %q, want empty", got)
	}
}
