// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bitsa-assistant/internal/bootstrap"
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/observability"

	ac "bitsa-assistant/internal/workers/assistant/assistant-chat"
	as "bitsa-assistant/internal/workers/assistant/assistant-search"
	gbc "bitsa-assistant/internal/workers/content/generate-blog-content"
	ged "bitsa-assistant/internal/workers/content/generate-event-description"
	gpf "bitsa-assistant/internal/workers/content/generate-project-feedback"
	tc "bitsa-assistant/internal/workers/content/translate-content"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.NewStructured("info", "console")
		fallback.Error("config load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log, sync, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		logger.NewStructured("info", "console").Error("logger init failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer sync()

	if err := run(cfg, log); err != nil {
		log.Error("worker manager stopped", map[string]interface{}{"error": err.Error()})
		sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Starting worker manager...", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"recordStore": cfg.RecordStore.Backend,
	})

	if err := cfg.RequireCamunda(); err != nil {
		return err
	}

	obs, err := observability.New(cfg.Observability, log)
	if err != nil {
		return err
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	services, err := bootstrap.Build(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer services.Close()
	log.Info("Assistant services initialized", map[string]interface{}{"model": services.Completer.Model()})

	workers := startWorkers(cfg, zeebe, services, obs, log)
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	server := newServer(cfg.Server.Address, zeebe, services)
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, w := range workers {
			w.Close()
			w.AwaitClose()
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info("All workers stopped", nil)
	case <-shutdownCtx.Done():
		log.Warn("Timed out waiting for workers to stop", nil)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Health/Metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func startWorkers(cfg *config.Config, zeebe *camunda.Client, s *bootstrap.Services, obs *observability.Observability, log logger.Logger) []worker.JobWorker {
	client := zeebe.GetClient()
	var started []worker.JobWorker
	start := func(taskType string, handler camunda.JobHandler, fetch []string) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if w := camunda.StartWorker(client, taskType, wcfg, handler, fetch, obs, log); w != nil {
			started = append(started, w)
		}
	}

	wc := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(cfg, taskType) }

	start(ac.TaskType, ac.NewHandler(ac.ConfigFrom(wc(ac.TaskType)), s.Orchestrator, log), ac.FetchVariables)
	start(as.TaskType, as.NewHandler(as.ConfigFrom(wc(as.TaskType)), s.Orchestrator, log), as.FetchVariables)
	start(gbc.TaskType, gbc.NewHandler(gbc.ConfigFrom(wc(gbc.TaskType)), s.Generator, s.Audit, log), gbc.FetchVariables)
	start(tc.TaskType, tc.NewHandler(tc.ConfigFrom(wc(tc.TaskType)), s.Generator, s.Audit, log), tc.FetchVariables)
	start(gpf.TaskType, gpf.NewHandler(gpf.ConfigFrom(wc(gpf.TaskType)), s.Generator, s.Audit, log), gpf.FetchVariables)
	start(ged.TaskType, ged.NewHandler(ged.ConfigFrom(wc(ged.TaskType)), s.Generator, s.Audit, log), ged.FetchVariables)

	return started
}

func newServer(addr string, zeebe *camunda.Client, s *bootstrap.Services) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures := s.Ready(ctx)
		if err := zeebe.HealthCheck(ctx); err != nil {
			failures["zeebe"] = err.Error()
		}
		if len(failures) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not_ready",
				"failures": failures,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	})

	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
