package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songwall/internal/server"
	"github.com/desertthunder/songwall/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web gallery until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	repo, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := r.webHandler(repo)
	if err != nil {
		return err
	}

	r.writePlain("Serving on http://%s\n", addr)
	return server.New(addr, handler, r.logger).Run(ctx)
}

// webHandler builds the routed, middleware-wrapped gallery handler.
func (r *Runner) webHandler(store web.SongStore) (*server.BasicRouter, error) {
	gallery, err := web.NewGallery(r.tagOptions(0, false)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger), server.Recover(r.logger))
	router.Handler(web.NewHandler(web.HandlerOpts{
		Store:    store,
		Gallery:  gallery,
		Fetcher:  r.audioFetcher(),
		Filename: r.config.Download.Filename,
		Logger:   r.logger,
	}))
	return router, nil
}
