package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"tailscale.com/tsnet"

	"github.com/claude/repcoach"
	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/config"
	"github.com/claude/repcoach/internal/mcp"
	"github.com/claude/repcoach/internal/metrics"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/server"
	"github.com/claude/repcoach/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// .env is optional; REPCOACH_* variables override the config file
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("RepCoach starting", "version", Version)
	if cfg.Auth.APIKey == "" {
		log.Warn("auth.api_key is empty, write endpoints are open to the tailnet")
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, repcoach.Migrations); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager("repcoach", "server", reg)

	svc := coach.New(db, coach.Options{
		WindowHours: int(cfg.Fatigue.Window() / time.Hour),
		Goal:        cfg.Planner.Goal(),
		Equipment:   cfg.Planner.EquipmentSet(),
	}, m, log)

	exercises, err := seedExercises(cfg.Catalogue.SeedPath, log)
	if err != nil {
		log.Error("failed to load exercise catalogue", "path", cfg.Catalogue.SeedPath, "error", err)
		os.Exit(1)
	}
	if _, err := svc.SeedCatalogue(ctx, exercises); err != nil {
		log.Warn("catalogue seeding failed", "error", err)
	}

	srv := server.New(svc, cfg.Auth.APIKey, m, reg, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(svc, Version, log)))

	// Start server, tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// seedExercises returns the catalogue used to fill an empty database: the
// TOML file at path, or the built-in catalogue when path is empty.
func seedExercises(path string, log *slog.Logger) ([]models.Exercise, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	exercises, skipped, err := catalog.Parse(f)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		log.Warn("catalogue entry skipped", "name", s.Name, "reason", s.Reason)
	}
	return exercises, nil
}
