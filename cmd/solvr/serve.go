package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/solvr/api"
)

// Run starts the HTTP API and blocks until SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg, logger := deps.Config, deps.Logger

	// ── 1. Validate configuration ───────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info("solvr starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"llm", cfg.LLM.Provider,
		"render", cfg.Render.Engine,
		"mail", cfg.Mail.Service,
	)

	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()

	// ── 2. Wire pipeline collaborators ──────────────────────────────
	svc, err := wire(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// ── 3. Verify SMTP once ─────────────────────────────────────────
	// A failed check is logged; jobs still try to deliver.
	if cfg.Mail.VerifyOnStart {
		vctx, vcancel := context.WithTimeout(ctx, 30*time.Second)
		if err := svc.notifier.Verify(vctx); err != nil {
			logger.Warn("email service connection failed", "error", err)
		} else {
			logger.Info("email service connected")
		}
		vcancel()
	}

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(ctx, api.Deps{
		Jobs:      svc.pipeline,
		Renderer:  svc.renderer,
		StartTime: time.Now(),
	}, cfg)

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.WithCORS(router, cfg.Server.CORSOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled")
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	// Give in-flight requests 5 seconds to complete. Background jobs are
	// not waited for.
	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()

	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("HTTP server forced shutdown", "error", err)
	} else {
		logger.Info("HTTP server drained gracefully")
	}

	logger.Info("solvr stopped")
	return nil
}
