package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	capacityhandlers "github.com/pv-tools/signal-atlas/pkg/handlers/capacity"
	datasethandlers "github.com/pv-tools/signal-atlas/pkg/handlers/dataset"
	signalatlasmiddleware "github.com/pv-tools/signal-atlas/pkg/server/middleware"
	datasetsvc "github.com/pv-tools/signal-atlas/pkg/services/dataset"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Datasets  datasetsvc.ManagementService
	Generator *report.Generator
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dsHandler := datasethandlers.NewHandler(config.Dependencies.Datasets, config.Dependencies.Generator)
	capHandler := capacityhandlers.NewHandler()

	router := chi.NewRouter()

	router.Use(signalatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/datasets", dsHandler.Upload)
		r.Get("/datasets", dsHandler.List)
		r.Get("/datasets/{dataset}", dsHandler.GetMeta)
		r.Delete("/datasets/{dataset}", dsHandler.Delete)
		r.Get("/datasets/{dataset}/changepoints", dsHandler.ChangePoints)
		r.Get("/datasets/{dataset}/acceleration", dsHandler.Acceleration)
		r.Get("/datasets/{dataset}/dose-response", dsHandler.DoseResponse)
		r.Get("/datasets/{dataset}/lots", dsHandler.Lots)
		r.Get("/datasets/{dataset}/priorities", dsHandler.Priorities)
		r.Get("/datasets/{dataset}/report", dsHandler.Report)
		r.Get("/capacity/sla", capHandler.ProjectSLA)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

// Router exposes the configured mux, mainly for tests.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
