package main

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/pthm/hxtag"
	"github.com/pthm/hxtag/internal/logging"
)

// gallery serves a page listing mounted tags.
type gallery struct {
	host *hxtag.Host
	ids  []string
}

func newGallery(host *hxtag.Host, tags []*hxtag.Tag) *gallery {
	g := &gallery{host: host}
	for _, t := range tags {
		g.ids = append(g.ids, host.Mount(t))
	}
	return g
}

// Handler routes the page and the tag events.
func (g *gallery) Handler(log *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(g.host.Prefix(), g.host.Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(map[string]any{
			"boosted": hxtag.IsBoosted(r),
			"tags":    g.host.Len(),
		}).Debug("render gallery")
		if err := hxtag.Render(w, r, g.page()); err != nil {
			log.Error(err, "render gallery")
		}
	})
	return mux
}

// page renders the tags still mounted. Tags removed by their handlers are
// skipped on reload.
func (g *gallery) page() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		for _, id := range g.ids {
			if _, err := g.host.Tag(id); hxtag.IsNotMounted(err) {
				continue
			}
			if err := g.host.Component(id).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</main>\n"); err != nil {
			return err
		}
		if err := hxtag.ToastContainer().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hxtag gallery</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
main { display: flex; flex-wrap: wrap; gap: .5rem; }
.hxtag { --hxtag-color: #276ef1; display: inline-flex; align-items: center; gap: .25rem; padding: .125rem .5rem; border-radius: 999px; border: 1px solid transparent; color: var(--hxtag-color); background: color-mix(in srgb, var(--hxtag-color) 12%, white); font-size: .875rem; user-select: none; }
.hxtag--kind-neutral { --hxtag-color: #757575; }
.hxtag--kind-accent, .hxtag--kind-purple { --hxtag-color: #7356bf; }
.hxtag--kind-positive, .hxtag--kind-green { --hxtag-color: #05944f; }
.hxtag--kind-warning, .hxtag--kind-yellow { --hxtag-color: #bc8b2c; }
.hxtag--kind-negative, .hxtag--kind-red { --hxtag-color: #e11900; }
.hxtag--kind-black { --hxtag-color: #000000; }
.hxtag--kind-orange { --hxtag-color: #ff6937; }
.hxtag--kind-brown { --hxtag-color: #99644c; }
.hxtag--variant-solid { background: var(--hxtag-color); color: white; }
.hxtag--variant-outlined { background: transparent; border-color: var(--hxtag-color); }
.hxtag--clickable { cursor: pointer; }
.hxtag--disabled { opacity: .5; cursor: not-allowed; }
.hxtag:focus-visible { outline: 2px solid var(--hxtag-color); outline-offset: 2px; }
.hxtag__action { display: inline-flex; cursor: pointer; }
.hxtag__action--disabled { cursor: not-allowed; }
.hxtag__icon { width: .75rem; height: .75rem; fill: currentColor; }
.toast-container { position: fixed; bottom: 1rem; right: 1rem; display: flex; flex-direction: column; gap: .5rem; }
.toast { padding: .5rem 1rem; border-radius: .25rem; background: #333; color: white; }
.toast-success { background: #05944f; }
.toast-error { background: #e11900; }
.toast-warning { background: #bc8b2c; }
</style>
</head>
<body>
<h1>hxtag gallery</h1>
<main>
`
