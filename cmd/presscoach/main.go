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

	"github.com/claude/presscoach/internal/config"
	"github.com/claude/presscoach/internal/history"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/ingest/mqtt"
	"github.com/claude/presscoach/internal/live"
	coachmcp "github.com/claude/presscoach/internal/mcp"
	"github.com/claude/presscoach/internal/server"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// resultStore is what the coach needs from either history backend.
type resultStore interface {
	server.Store
	session.ResultStore
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("PressCoach starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open workout history
	var store resultStore
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if *migrateOnly {
			log.Info("migrate-only: sqlite history needs no migrations")
			return
		}
		hs, err := history.Open(cfg.History.Dir)
		if err != nil {
			log.Error("failed to open history", "dir", cfg.History.Dir, "error", err)
			os.Exit(1)
		}
		defer hs.Close()
		store = hs
		log.Info("history opened", "dir", cfg.History.Dir)
	default:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
		log.Info("database connected")
	}

	// Session manager, snapshot hub and clock
	hub := live.NewHub()
	manager := session.NewManager(store, hub, log)

	if cfg.Defaults.Goal != "" {
		sc, err := cfg.Session.Apply(cfg.Defaults).Parse()
		if err != nil {
			log.Error("invalid default session", "error", err)
			os.Exit(1)
		}
		manager.Configure(sc)
	}

	go session.RunClock(ctx, manager, session.NewTicker(cfg.Session.ClockInterval), log)

	// Frame ingest
	frames := landmarks.NewProvider(manager, log)

	if cfg.MQTT.Enabled {
		format, err := landmarks.ParseFormat(cfg.MQTT.Format)
		if err != nil {
			log.Error("invalid mqtt format", "error", err)
			os.Exit(1)
		}
		sub := mqtt.NewSubscriber(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
			Format:   format,
		}, frames, log)
		if err := sub.Start(); err != nil {
			log.Error("mqtt start failed", "error", err)
			os.Exit(1)
		}
		defer sub.Stop()
	}

	// MCP over streamable HTTP
	mcpSrv := coachmcp.New(store, coachmcp.ManagerSession{Manager: manager}, Version, log)

	// Create server
	srv := server.New(store, manager, hub, frames, server.Options{
		APIKey:  cfg.Auth.APIKey,
		Session: cfg.Session,
		MCP:     mcpserver.NewStreamableHTTPServer(mcpSrv),
	}, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
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
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// A session still in progress is saved before exit.
	if snap, err := manager.Snapshot(); err == nil && (snap.State == session.StateRunning || snap.State == session.StatePaused) {
		if _, err := manager.Finish(); err != nil {
			log.Warn("finishing session on shutdown", "error", err)
		}
	}
	log.Info("server stopped")
}
