package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/commbridge/bridged/internal/brain"
	"github.com/commbridge/bridged/internal/config"
	"github.com/commbridge/bridged/internal/contextstore"
	"github.com/commbridge/bridged/internal/httpapi"
	"github.com/commbridge/bridged/internal/intent"
	"github.com/commbridge/bridged/internal/interpret"
	"github.com/commbridge/bridged/internal/observability"
	"github.com/commbridge/bridged/internal/pipeline"
	"github.com/commbridge/bridged/internal/respond"
	"github.com/commbridge/bridged/internal/simulation"
	"github.com/commbridge/bridged/internal/store"
	"github.com/commbridge/bridged/internal/translate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	durable, err := store.New(ctx, cfg.StoreMode, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer durable.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:    cfg.BrainMode,
		HTTPURL: cfg.BrainHTTPURL,
		Timeout: cfg.BrainTimeout,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}
	if adapter == nil {
		log.Printf("brain capability: none configured, rule-based fallbacks active")
	} else {
		log.Printf("brain capability: %s", cfg.BrainMode)
	}

	contexts := contextstore.New(durable, cfg.ContextWindow, cfg.ContextColdLimit)
	orchestrator := pipeline.New(
		durable,
		contexts,
		interpret.New(adapter),
		intent.New(adapter),
		respond.New(adapter),
		metrics,
		pipeline.Config{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			BrainEnabled:        adapter != nil,
		},
	)

	hub := httpapi.NewHub(metrics)
	orchestrator.SetSink(hub)

	sim := simulation.NewManager(orchestrator, durable)
	translator := translate.New(adapter)

	api := httpapi.New(cfg, durable, orchestrator, sim, translator, metrics, hub)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
