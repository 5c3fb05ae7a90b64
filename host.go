package hxtag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/pthm/hxtag/lib/encoding"
	"github.com/rs/zerolog"
)

// DefaultPrefix is the URL prefix the host serves events under.
const DefaultPrefix = "/_tag/"

// Host connects mounted tags to the browser through HTMX.
//
// Tags rendered through the host carry hx-* attributes that post their
// events back; the host turns each request into an Event, dispatches it on
// the tag's last element tree and answers with the re-rendered tag:
//
//	host := hxtag.NewHost(key)
//	id := host.Mount(hxtag.New(hxtag.Props{
//	    Children:      "golang",
//	    OnActionClick: func(e *hxtag.Event) { e.Remove() },
//	}))
//	http.Handle(hxtag.DefaultPrefix, host.Handler())
//
//	// in a template
//	@host.Component(id)
//
// Element references travel signed (or encrypted, see Sensitive) so clients
// cannot address tags or slots they were not given.
type Host struct {
	mu        sync.RWMutex
	mux       *http.ServeMux
	encoder   *encoding.Encoder
	prefix    string
	sensitive bool
	log       zerolog.Logger
	instances map[string]*instance

	// OnError is called when a request cannot be served.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

type instance struct {
	mu  sync.Mutex
	id  string
	tag *Tag
}

// elementRef addresses one element of one mounted tag.
type elementRef struct {
	Instance string `msgpack:"i"`
	Slot     string `msgpack:"s"`
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithPrefix sets the URL prefix. It must start and end with "/".
func WithPrefix(prefix string) HostOption {
	return func(h *Host) {
		h.prefix = prefix
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(log zerolog.Logger) HostOption {
	return func(h *Host) {
		h.log = log
	}
}

// Sensitive encrypts element references instead of signing them.
func Sensitive() HostOption {
	return func(h *Host) {
		h.sensitive = true
	}
}

// NewHost creates a host sealing references with key.
// Panics if the prefix is malformed or the encoder cannot be created.
func NewHost(key []byte, opts ...HostOption) *Host {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxtag: failed to create encoder: %v", err))
	}

	h := &Host{
		mux:       http.NewServeMux(),
		encoder:   enc,
		prefix:    DefaultPrefix,
		log:       zerolog.Nop(),
		instances: make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(h)
	}
	if !strings.HasPrefix(h.prefix, "/") || !strings.HasSuffix(h.prefix, "/") {
		panic(fmt.Sprintf("hxtag: prefix %q must start and end with /", h.prefix))
	}

	h.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if IsNotMounted(err) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if IsBadRequest(err) {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}

	h.mux.HandleFunc("GET "+h.prefix+"{id}", h.handleRender)
	h.mux.HandleFunc("POST "+h.prefix+"{id}/event", h.handleEvent)
	return h
}

// Prefix returns the URL prefix the host serves under.
func (h *Host) Prefix() string {
	return h.prefix
}

// Mount registers t and returns its instance id. The instance lives, focus
// state included, until Unmount or a handler calls Event.Remove.
func (h *Host) Mount(t *Tag) string {
	id := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.instances[id] = &instance{id: id, tag: t}
	h.log.Debug().Str("instance", id).Msg("tag mounted")
	return id
}

// Unmount drops the instance. It reports whether it was mounted.
func (h *Host) Unmount(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.instances[id]; !ok {
		return false
	}
	delete(h.instances, id)
	h.log.Debug().Str("instance", id).Msg("tag unmounted")
	return true
}

// Tag returns the mounted tag with the given id.
func (h *Host) Tag(id string) (*Tag, error) {
	inst, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	return inst.tag, nil
}

// Len returns the number of mounted tags.
func (h *Host) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.instances)
}

// acquire looks up id and locks the instance. An instance unmounted while
// the caller waited for the lock is reported as not mounted. The caller
// must unlock inst.mu.
func (h *Host) acquire(id string) (*instance, error) {
	inst, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	inst.mu.Lock()
	if cur, err := h.lookup(id); err != nil || cur != inst {
		inst.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotMounted, id)
	}
	return inst, nil
}

func (h *Host) lookup(id string) (*instance, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	inst, ok := h.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotMounted, id)
	}
	return inst, nil
}

// Component renders the mounted tag id with HTMX wiring.
func (h *Host) Component(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		inst, err := h.acquire(id)
		if err != nil {
			return err
		}
		defer inst.mu.Unlock()
		return h.render(ctx, w, inst)
	})
}

// render must be called with inst.mu held.
func (h *Host) render(ctx context.Context, w io.Writer, inst *instance) error {
	return inst.tag.Render(WithWiring(ctx, h.wiring(inst.id)), w)
}

func (h *Host) wiring(id string) Wiring {
	return func(slot Slot, attrs templ.Attributes) templ.Attributes {
		handlers := attachedHandlers(attrs)
		if len(handlers) == 0 {
			return nil
		}
		ref, err := h.encoder.Encode(elementRef{Instance: id, Slot: slot.String()}, h.sensitive)
		if err != nil {
			h.log.Error().Err(err).Str("instance", id).Msg("seal element reference")
			return nil
		}
		return WireAttrs(h.prefix+id+"/event", ref, handlers)
	}
}

// Handler returns the HTTP handler for tag routes.
// Mount this at the host prefix in your application.
func (h *Host) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead && !IsHTMX(r) {
			http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
			return
		}
		h.mux.ServeHTTP(w, r)
	})
}

func (h *Host) handleRender(w http.ResponseWriter, r *http.Request) {
	if err := Render(w, r, h.Component(r.PathValue("id"))); err != nil {
		h.OnError(w, r, err)
	}
}

func (h *Host) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.lookup(id); err != nil {
		h.OnError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.OnError(w, r, fmt.Errorf("%w: %v", ErrInvalidEvent, err))
		return
	}

	var ref elementRef
	if err := h.encoder.Decode(r.PostForm.Get("p"), h.sensitive, &ref); err != nil {
		h.OnError(w, r, wrapEncodingError(err))
		return
	}
	if ref.Instance != id {
		h.OnError(w, r, fmt.Errorf("%w: reference for another tag", ErrInvalidFormat))
		return
	}

	inst, err := h.acquire(id)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	defer inst.mu.Unlock()

	e, err := h.eventFromForm(inst.tag, ref, r)
	if err != nil {
		h.OnError(w, r, err)
		return
	}

	handled, err := inst.tag.Dispatch(e)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	h.log.Debug().
		Str("instance", id).
		Str("event", string(e.Type)).
		Str("key", e.Key).
		Str("target", e.Target.Slot.String()).
		Str("trigger_id", TriggerID(r)).
		Str("page", CurrentURL(r)).
		Bool("handled", handled).
		Bool("focus_visible", inst.tag.FocusVisible()).
		Msg("tag event")

	resp := e.Response()
	if !handled && resp.IsZero() {
		// Nothing ran, so the rendered tag is unchanged.
		w.Header().Set("HX-Reswap", string(SwapNone))
		w.WriteHeader(http.StatusOK)
		return
	}
	if resp.Removed() {
		h.Unmount(id)
	}
	h.writeResponse(w, r, inst, resp)
}

// eventFromForm rebuilds the event posted by the client. The originating
// element must be the listening element or one of its descendants.
func (h *Host) eventFromForm(t *Tag, ref elementRef, r *http.Request) (*Event, error) {
	listener, err := ParseSlot(ref.Slot)
	if err != nil {
		return nil, err
	}

	root, err := t.tree()
	if err != nil {
		return nil, err
	}
	current := root.Find(listener)
	if current == nil {
		return nil, fmt.Errorf("%w: slot %s not rendered", ErrInvalidEvent, listener)
	}

	typ := EventType(r.PostForm.Get("event"))
	valid := false
	for _, t := range wiredEvents {
		if t == typ {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidEvent, typ)
	}

	target := current
	if name := r.PostForm.Get("target"); name != "" {
		s, err := ParseSlot(name)
		if err != nil {
			return nil, err
		}
		if found := current.Find(s); found != nil {
			target = found
		}
	}

	e := NewEvent(typ, target)
	e.Key = r.PostForm.Get("key")
	e.FromKeyboard = r.PostForm.Get("keyboard") == "true"
	return e, nil
}

// writeResponse must be called with inst.mu held.
func (h *Host) writeResponse(w http.ResponseWriter, r *http.Request, inst *instance, resp *Response) {
	var body bytes.Buffer
	if !resp.Removed() {
		if err := h.render(r.Context(), &body, inst); err != nil {
			h.OnError(w, r, err)
			return
		}
	}
	body.WriteString(RenderFlashesOOB(resp.Flashes()))

	hdr := w.Header()
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	if trigger := BuildTriggerHeader(resp); trigger != "" {
		hdr.Set("HX-Trigger", trigger)
	}
	if resp.Removed() {
		hdr.Set("HX-Reswap", string(SwapDelete))
	}
	for k, v := range resp.Headers() {
		hdr.Set(k, v)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body.Bytes()); err != nil {
		h.log.Warn().Err(err).Str("instance", inst.id).Msg("write response")
	}
}

// wrapEncodingError maps encoding errors onto hxtag sentinel errors.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, encoding.ErrDecryptFailed):
		return fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
}
