// Command inventoryd runs a local development inventory server backed by
// SQLite, exposing the same REST API invctl talks to in production.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/probelab/invctl/internal/inventoryd"
	"github.com/probelab/invctl/pkg/schema"
)

func main() {
	var (
		listenAddr string
		dbPath     string
		token      string
		container  int64
	)

	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&dbPath, "db", "inventory.db", "SQLite database path (use :memory: for ephemeral state)")
	flag.StringVar(&token, "token", "", "API bearer token (generated when empty)")
	flag.Int64Var(&container, "container", 1, "Default container id")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if token == "" {
		token = uuid.NewString()
		logger.Info("generated API token", "token", token)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}

	server, err := inventoryd.NewServer(db, inventoryd.Config{
		Token:            token,
		DefaultContainer: container,
		Registry:         schema.Default(),
		Logger:           logger,
	})
	if err != nil {
		logger.Error("initialize server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting inventory server", "listen", listenAddr, "db", dbPath, "container", container)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
