package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/estoque/internal/catalog/store"
	"github.com/MrJamesThe3rd/estoque/internal/config"
	"github.com/MrJamesThe3rd/estoque/internal/database"
	"github.com/MrJamesThe3rd/estoque/internal/export"
	estoqueHttp "github.com/MrJamesThe3rd/estoque/internal/http"
	exportHandler "github.com/MrJamesThe3rd/estoque/internal/http/export"
	healthHandler "github.com/MrJamesThe3rd/estoque/internal/http/health"
	imageHandler "github.com/MrJamesThe3rd/estoque/internal/http/image"
	invoiceHandler "github.com/MrJamesThe3rd/estoque/internal/http/invoice"
	productHandler "github.com/MrJamesThe3rd/estoque/internal/http/product"
	"github.com/MrJamesThe3rd/estoque/internal/importer"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/estoque/internal/invoice/store"
	"github.com/MrJamesThe3rd/estoque/internal/logging"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()

	db, err := database.New(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, database.Collections{
		Products: cfg.Mongo.ProductsCollection,
		Invoices: cfg.Mongo.InvoicesCollection,
		Images:   cfg.Mongo.ImagesCollection,
	})
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := db.Close(closeCtx); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := db.EnsureIndexes(connectCtx); err != nil {
		return err
	}

	slog.Info("connected to database", "database", cfg.Mongo.Database)

	catalogRepo := catalogStore.New(db)

	var (
		catalogService = catalog.NewService(catalogRepo, catalogRepo)
		invoiceService = invoice.NewService(invoiceStore.New(db))
		importService  = importer.NewService()
		exportService  = export.NewService(invoiceService, catalogService)
	)

	var (
		healthH  = healthHandler.NewHandler(db, invoiceService, cfg.Mongo.InvoicesCollection)
		productH = productHandler.NewHandler(catalogService, cfg.Server.MaxUploadBytes)
		imageH   = imageHandler.NewHandler(catalogService)
		invoiceH = invoiceHandler.NewHandler(invoiceService, importService, cfg.Server.MaxUploadBytes)
		exportH  = exportHandler.NewHandler(exportService)
	)

	router := estoqueHttp.New(estoqueHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, healthH, productH, imageH, invoiceH, exportH)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
