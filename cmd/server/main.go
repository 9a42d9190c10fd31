package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/nik-bond/pizzatg/internal/api"
	"github.com/nik-bond/pizzatg/internal/config"
	"github.com/nik-bond/pizzatg/internal/service"
	"github.com/nik-bond/pizzatg/internal/storage/sqlite"
	"github.com/nik-bond/pizzatg/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	srv := api.New(
		service.NewOrderService(store),
		service.NewDebtService(store),
		service.NewPaymentService(store),
	)

	slog.Info("server starting", "address", cfg.BindAddr)
	if err := http.ListenAndServe(cfg.BindAddr, srv.Handler()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
