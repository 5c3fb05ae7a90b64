package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm/hxtag"
	"github.com/pthm/hxtag/internal/config"
	"github.com/pthm/hxtag/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tag gallery over HTTP",
		Long:  `Serve a page of the configured tags. Clicks and key presses are posted back through HTMX and handled on the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			handler, err := newServer(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return listen(ctx, cfg.Server.Addr, handler, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")

	return cmd
}

// newServer builds the gallery handler for cfg.
func newServer(cfg config.Config, log *logging.Logger) (http.Handler, error) {
	key, err := hostKey(cfg.Server.Key, log)
	if err != nil {
		return nil, err
	}

	opts := []hxtag.HostOption{
		hxtag.WithPrefix(cfg.Server.Prefix),
		hxtag.WithLogger(log.Zerolog()),
	}
	if cfg.Server.Sensitive {
		opts = append(opts, hxtag.Sensitive())
	}
	host := hxtag.NewHost(key, opts...)

	tags, err := buildTags(cfg.Tags, log)
	if err != nil {
		return nil, err
	}
	return newGallery(host, tags).Handler(log), nil
}

// hostKey returns the configured key or, when none is set, a random one.
// Element references from a random key do not survive restarts.
func hostKey(configured string, log *logging.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	log.Info("no server.key configured, using a random key")
	return key, nil
}

func listen(ctx context.Context, addr string, handler http.Handler, log *logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("serving gallery at http://%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
