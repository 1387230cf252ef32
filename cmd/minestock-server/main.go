package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minestock/internal/config"
	"minestock/internal/server"
	"minestock/internal/session"
	"minestock/internal/storage"
	"minestock/internal/synth"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()
	db.SetHistoryLimit(cfg.HistoryLimit)

	svc := synth.NewService(db, cfg)
	state := session.New()
	handler := server.NewHandler(db, svc, state)
	router := server.NewRouter(cfg, handler)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("minestock server listening on %s\n", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		must(err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
