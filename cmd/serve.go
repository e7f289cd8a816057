package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fundmesh/memory"
	"github.com/hupe1980/fundmesh/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the advisory pipeline over HTTP",
		Long:  "Serves the orchestrator endpoint (POST /invocations), the per-agent endpoints (POST /agents/{stage}/invocations) and the session summary endpoint as server-sent event and JSON APIs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp()
			if err != nil {
				return err
			}

			if addr == "" {
				addr = app.cfg.Server.Addr
			}

			srv := server.New(app.runner, func(o *server.Options) {
				o.Invoker = app.invoker
				o.MemoryService = app.memory
				o.MemoryID = app.cfg.Memory.MemoryID
				o.ActorID = app.cfg.Memory.ActorID
				o.Logger = app.logger
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// When the memory trail lives in-process, derive session
			// summaries in the background.
			if store, ok := app.memory.(memory.SummaryStore); ok {
				if mdl, haveModel := localSummarizerModel(app); haveModel {
					summarizer := memory.NewSummarizer(store, mdl, app.cfg.Memory.MemoryID, func(o *memory.SummarizerOptions) {
						o.ActorID = app.cfg.Memory.ActorID
						o.Logger = app.logger
					})
					go summarizer.Run(ctx)
				}
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)

			go func() {
				app.logger.Info("http server listening addr=%s", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to SERVER_ADDR)")

	return cmd
}
