// Package hxtagecho provides Echo framework integration for hxtag hosts.
//
// Mount a host onto an Echo instance or group:
//
//	e := echo.New()
//	host := hxtagecho.Mount(e)
//	id := host.Mount(hxtag.New(hxtag.Props{Children: "golang"}))
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	host := hxtagecho.MountGroup(g)
package hxtagecho

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtag"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key      []byte
	path     string
	hostOpts []hxtag.HostOption
}

// WithKey sets the key sealing element references.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL path for tag routes, relative to the Echo instance
// or group. Defaults to hxtag.DefaultPrefix.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithHostOptions passes options, such as hxtag.Sensitive or
// hxtag.WithLogger, through to the host.
func WithHostOptions(opts ...hxtag.HostOption) Option {
	return func(o *options) {
		o.hostOpts = append(o.hostOpts, opts...)
	}
}

// Mount creates a host and mounts its handler on an Echo instance.
//
//	e := echo.New()
//	host := hxtagecho.Mount(e)
//
//	// With options:
//	host := hxtagecho.Mount(e, hxtagecho.WithKey(key))
func Mount(e *echo.Echo, opts ...Option) *hxtag.Host {
	o := newOptions(opts)
	var handler http.Handler
	routes := e.Any(o.path+"*", func(c echo.Context) error {
		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	host := newHost(o, routes)
	handler = host.Handler()
	return host
}

// MountGroup creates a host and mounts its handler on an Echo group.
// This allows tag events to share middleware with the group (auth, logging, etc.).
// Rendered tags post to the full path, group prefix included.
//
//	g := e.Group("/app", authMiddleware)
//	host := hxtagecho.MountGroup(g)
func MountGroup(g *echo.Group, opts ...Option) *hxtag.Host {
	o := newOptions(opts)
	var handler http.Handler
	routes := g.Any(o.path+"*", func(c echo.Context) error {
		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	host := newHost(o, routes)
	handler = host.Handler()
	return host
}

func newOptions(opts []Option) *options {
	o := &options{path: hxtag.DefaultPrefix}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newHost creates the host serving under the path Echo registered, which
// includes any group prefix.
func newHost(o *options, routes []*echo.Route) *hxtag.Host {
	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxtagecho: failed to generate random key: %v", err))
		}
	}

	prefix := o.path
	if len(routes) > 0 {
		prefix = strings.TrimSuffix(routes[0].Path, "*")
	}
	hostOpts := append([]hxtag.HostOption{hxtag.WithPrefix(prefix)}, o.hostOpts...)
	return hxtag.NewHost(key, hostOpts...)
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxtagecho.Render(c, host.Component(id))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
