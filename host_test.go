package hxtag

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testKey = []byte("test-key-for-hxtag-host")

func TestHostMountUnmount(t *testing.T) {
	h := NewHost(testKey)
	tag := New(Props{Children: "a"})

	id := h.Mount(tag)
	if id == "" {
		t.Fatal("Mount() returned empty id")
	}
	if other := h.Mount(New(Props{Children: "b"})); other == id {
		t.Error("Mount() should return unique ids")
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	got, err := h.Tag(id)
	if err != nil || got != tag {
		t.Errorf("Tag() = %v, %v", got, err)
	}

	if !h.Unmount(id) {
		t.Error("Unmount() = false for a mounted tag")
	}
	if h.Unmount(id) {
		t.Error("Unmount() = true twice")
	}
	if _, err := h.Tag(id); !IsNotMounted(err) {
		t.Errorf("Tag() error = %v, want ErrNotMounted", err)
	}
}

func TestNewHostBadPrefix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewHost() should panic on a prefix without trailing slash")
		}
	}()
	NewHost(testKey, WithPrefix("/tags"))
}

func TestHostComponentWiring(t *testing.T) {
	h := NewHost(testKey, WithPrefix("/tags/"))
	id := h.Mount(New(Props{Children: "golang", OnClick: func(e *Event) {}}))

	var buf bytes.Buffer
	if err := h.Component(id).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	html := buf.String()

	// Root and Action post events, Text and ActionIcon do not.
	if got := strings.Count(html, "hx-post="); got != 2 {
		t.Errorf("hx-post count = %d, want 2 in %s", got, html)
	}
	if !strings.Contains(html, `hx-post="/tags/`+id+`/event"`) {
		t.Errorf("missing event path in %s", html)
	}

	var missing bytes.Buffer
	if err := h.Component("nope").Render(context.Background(), &missing); !IsNotMounted(err) {
		t.Errorf("Render() error = %v, want ErrNotMounted", err)
	}
}

func TestHostDisabledTagIsNotWired(t *testing.T) {
	h := NewHost(testKey)
	id := h.Mount(New(Props{Children: "a", Disabled: true, OnClick: func(e *Event) {}}))

	result, err := NewTestRequest(http.MethodGet, DefaultPrefix+id).Execute(h)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if result.HTMLContains("hx-post") {
		t.Errorf("disabled tag should not be wired: %s", result.HTML)
	}
	if !result.HTMLContains(`aria-disabled="true"`) {
		t.Errorf("missing aria-disabled: %s", result.HTML)
	}
}

func TestHostClickEvent(t *testing.T) {
	h := NewHost(testKey)
	clicks := 0
	id := h.Mount(New(Props{
		Children:  "golang",
		Closeable: Bool(false),
		OnClick: func(e *Event) {
			clicks++
			e.Trigger("tag:clicked", map[string]any{"label": "golang"})
			e.Flash(FlashSuccess, "Selected golang")
		},
	}))

	result, err := TestEvent(h, id, SlotText, EventClick, "")
	if err != nil {
		t.Fatalf("TestEvent() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d, body %s", result.StatusCode, result.HTML)
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if !result.HasEvent("tag:clicked") {
		t.Errorf("events = %v, want tag:clicked", result.TriggeredEvents)
	}
	if !result.HasFlash(FlashSuccess, "Selected golang") {
		t.Errorf("flashes = %v", result.Flashes)
	}
	if !result.HTMLContainsAll(`data-hxtag="tag"`, `hx-post=`, "golang") {
		t.Errorf("response should re-render the tag: %s", result.HTML)
	}
	if result.Removed() {
		t.Error("click should not remove the tag")
	}
}

func TestHostBackspaceRemoves(t *testing.T) {
	h := NewHost(testKey, Sensitive())
	id := h.Mount(New(Props{
		Children: "golang",
		OnActionClick: func(e *Event) {
			e.Remove()
			e.Trigger("tag:dismissed")
		},
	}))

	result, err := TestEvent(h, id, SlotRoot, EventKeyDown, KeyBackspace)
	if err != nil {
		t.Fatalf("TestEvent() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if !result.Removed() {
		t.Error("Backspace should remove a closeable tag")
	}
	if !result.HasHeader("HX-Trigger", "tag:dismissed") {
		t.Errorf("HX-Trigger = %q", result.Headers.Get("HX-Trigger"))
	}
	if result.HTML != "" {
		t.Errorf("removed tag should not be re-rendered: %s", result.HTML)
	}
	if h.Len() != 0 {
		t.Error("removed tag should be unmounted")
	}

	result, err = TestEvent(h, id, SlotRoot, EventKeyDown, KeyBackspace)
	if !IsNotMounted(err) {
		t.Errorf("TestEvent() after removal error = %v, want ErrNotMounted", err)
	}
	if result != nil {
		t.Error("TestEvent() should not return a result for an unmounted tag")
	}
}

func TestHostActionClick(t *testing.T) {
	h := NewHost(testKey)
	var calls []string
	id := h.Mount(New(Props{
		Children:      "golang",
		OnClick:       func(e *Event) { calls = append(calls, "click") },
		OnActionClick: func(e *Event) { calls = append(calls, "action") },
	}))

	result, err := TestEvent(h, id, SlotActionIcon, EventClick, "")
	if err != nil {
		t.Fatalf("TestEvent() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if len(calls) != 1 || calls[0] != "action" {
		t.Errorf("calls = %v, want [action]", calls)
	}
}

func TestHostBubbledKeyDown(t *testing.T) {
	h := NewHost(testKey)
	removed := false
	id := h.Mount(New(Props{
		Children:      "golang",
		OnActionClick: func(e *Event) { removed = true },
	}))

	if _, err := TestEvent(h, id, SlotText, EventKeyDown, KeyDelete); err != nil {
		t.Fatalf("TestEvent() failed: %v", err)
	}
	if removed {
		t.Error("keydown from nested content should be ignored")
	}
}

func TestHostRejectsBadRequests(t *testing.T) {
	h := NewHost(testKey)
	id := h.Mount(New(Props{Children: "a"}))
	other := h.Mount(New(Props{Children: "b"}))

	ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: "Root"}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	otherRef, err := h.encoder.Encode(elementRef{Instance: other, Slot: "Root"}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	badSlot, err := h.encoder.Encode(elementRef{Instance: id, Slot: "Label"}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	tests := []struct {
		name   string
		req    *TestRequestBuilder
		status int
	}{
		{
			name:   "missing HX-Request",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithHeader("HX-Request", "").WithFormData("p", ref).WithFormData("event", "click"),
			status: http.StatusForbidden,
		},
		{
			name:   "unknown instance",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+"nope/event").WithFormData("p", ref).WithFormData("event", "click"),
			status: http.StatusNotFound,
		},
		{
			name:   "forged reference",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithFormData("p", "AAAA.AAAA").WithFormData("event", "click"),
			status: http.StatusBadRequest,
		},
		{
			name:   "reference for another tag",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithFormData("p", otherRef).WithFormData("event", "click"),
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown slot",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithFormData("p", badSlot).WithFormData("event", "click"),
			status: http.StatusBadRequest,
		},
		{
			name:   "unwired event",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithFormData("p", ref).WithFormData("event", "focus"),
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown target",
			req:    NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").WithFormData("p", ref).WithFormData("event", "click").WithFormData("target", "Label"),
			status: http.StatusBadRequest,
		},
		{
			name:   "render unknown instance",
			req:    NewTestRequest(http.MethodGet, DefaultPrefix+"nope"),
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.req.Execute(h)
			if err != nil {
				t.Fatalf("Execute() failed: %v", err)
			}
			if !result.HasStatus(tt.status) {
				t.Errorf("status = %d, want %d (%s)", result.StatusCode, tt.status, result.HTML)
			}
		})
	}
}

func TestHostCustomOnError(t *testing.T) {
	h := NewHost(testKey)
	var got error
	h.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}

	result, err := NewTestRequest(http.MethodGet, DefaultPrefix+"nope").Execute(h)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !result.HasStatus(http.StatusTeapot) || !IsNotMounted(got) {
		t.Errorf("status = %d, err = %v", result.StatusCode, got)
	}
}

func TestHostSensitiveReferencesAreOpaque(t *testing.T) {
	signed := NewHost(testKey)
	sealed := NewHost(testKey, Sensitive())

	ref := elementRef{Instance: "4f1c", Slot: "Root"}
	a, err := signed.encoder.Encode(ref, signed.sensitive)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	b, err := sealed.encoder.Encode(ref, sealed.sensitive)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !strings.Contains(a, ".") || strings.Contains(b, ".") {
		t.Errorf("signed = %q, sealed = %q", a, b)
	}

	var out elementRef
	if err := signed.encoder.Decode(b, signed.sensitive, &out); err == nil {
		t.Error("signed host should not accept encrypted references")
	}
}

func TestHostConcurrentEventsAfterRemove(t *testing.T) {
	h := NewHost(testKey)
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	id := h.Mount(New(Props{
		Children: "golang",
		OnActionClick: func(e *Event) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(entered)
				<-release
			}
			e.Remove()
		},
	}))

	ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: SlotAction.String()}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	post := func() *TestRequestBuilder {
		return NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").
			WithFormData("p", ref).
			WithFormData("event", string(EventClick))
	}

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	run := func(i int) {
		defer wg.Done()
		result, err := post().Execute(h)
		if err != nil {
			t.Errorf("Execute() failed: %v", err)
			return
		}
		statuses[i] = result.StatusCode
	}

	wg.Add(2)
	go run(0)
	<-entered
	go run(1)
	// Give the second request time to queue behind the first.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if statuses[0] != http.StatusOK {
		t.Errorf("first status = %d, want 200", statuses[0])
	}
	if statuses[1] != http.StatusNotFound {
		t.Errorf("second status = %d, want 404", statuses[1])
	}
	if calls != 1 {
		t.Errorf("OnActionClick calls = %d, want 1", calls)
	}
}

func TestHostComponentAfterRemove(t *testing.T) {
	h := NewHost(testKey)
	id := h.Mount(New(Props{Children: "golang"}))
	c := h.Component(id)
	h.Unmount(id)

	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); !IsNotMounted(err) {
		t.Errorf("Render() error = %v, want ErrNotMounted", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Render() wrote %q for an unmounted tag", buf.String())
	}
}

func TestHostUnhandledEventKeepsTag(t *testing.T) {
	h := NewHost(testKey)
	id := h.Mount(New(Props{Children: "golang", Closeable: Bool(false)}))

	ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: SlotText.String()}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	result, err := NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").
		WithFormData("p", ref).
		WithFormData("event", string(EventClick)).
		Execute(h)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if !result.HasHeader("HX-Reswap", string(SwapNone)) {
		t.Errorf("HX-Reswap = %q, want none", result.Headers.Get("HX-Reswap"))
	}
	if result.HTML != "" {
		t.Errorf("unchanged tag should not be re-rendered: %s", result.HTML)
	}
}

func TestHostLogsRequestContext(t *testing.T) {
	var logs bytes.Buffer
	h := NewHost(testKey, WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	id := h.Mount(New(Props{Children: "golang", OnClick: func(e *Event) {}}))

	ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: SlotRoot.String()}, false)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	result, err := NewTestRequest(http.MethodPost, DefaultPrefix+id+"/event").
		WithHeader("HX-Trigger", "tag-golang").
		WithHeader("HX-Current-URL", "http://localhost/tags").
		WithFormData("p", ref).
		WithFormData("event", string(EventClick)).
		Execute(h)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !result.IsOK() {
		t.Fatalf("status = %d", result.StatusCode)
	}

	for _, want := range []string{`"trigger_id":"tag-golang"`, `"page":"http://localhost/tags"`, `"handled":true`} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %s: %s", want, logs.String())
		}
	}
}
