package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"example.com/rocketshoes/app/internal/config"
	domcart "example.com/rocketshoes/app/internal/domain/cart"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
	"example.com/rocketshoes/app/internal/infra/inventory"
	"example.com/rocketshoes/app/internal/infra/logging"
	"example.com/rocketshoes/app/internal/infra/notify"
	"example.com/rocketshoes/app/internal/infra/persistence/memory"
	mysqlstore "example.com/rocketshoes/app/internal/infra/persistence/mysql"
	pgstore "example.com/rocketshoes/app/internal/infra/persistence/postgres"
	redisstore "example.com/rocketshoes/app/internal/infra/persistence/redis"
	sqlitestore "example.com/rocketshoes/app/internal/infra/persistence/sqlite"
	"example.com/rocketshoes/app/internal/infra/security"
	"example.com/rocketshoes/app/internal/infra/telemetry"
	httpapi "example.com/rocketshoes/app/internal/interface/http"
	productuc "example.com/rocketshoes/app/internal/usecase/product"
	"example.com/rocketshoes/app/internal/usecase/session"
)

const serviceName = "rocketshoes-cart"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("service stopped")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var traceOut io.Writer
	if cfg.TraceStdout {
		traceOut = os.Stdout
	}
	tp, err := telemetry.InitTracerProvider(ctx, serviceName, traceOut)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("tracer shutdown")
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	catalog, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	productSvc := productuc.NewService(catalog)
	if cfg.CatalogSeedFile != "" {
		if err := seedCatalog(ctx, productSvc, cfg.CatalogSeedFile, log); err != nil {
			return err
		}
	}

	registry := session.NewRegistry(storage, catalog, log, session.WithIdleTimeout(cfg.SessionIdleTimeout))
	go registry.Run(ctx, cfg.SessionIdleTimeout/2)

	api := httpapi.NewAPI(httpapi.Dependencies{
		Sessions:       registry,
		ProductService: productSvc,
		TokenService:   security.NewJWTService(cfg.SessionSecret, cfg.SessionTTL),
		Notifier:       notify.NewLogNotifier(log),
		Logger:         log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"storage": cfg.StorageDriver,
			"remote":  cfg.UseRemoteInventory(),
		}).Info("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

func openStorage(ctx context.Context, cfg config.Config) (domcart.Storage, func(), error) {
	switch cfg.StorageDriver {
	case "sqlite":
		db, err := sqlitestore.Open(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlitestore.NewSnapshotStorage(db), func() { _ = db.Close() }, nil
	case "mysql":
		db, err := mysqlstore.Open(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return mysqlstore.NewSnapshotStorage(db), func() { _ = db.Close() }, nil
	case "postgres":
		st, err := pgstore.Open(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "redis":
		st, err := redisstore.Open(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return memory.NewSnapshotStorage(), func() {}, nil
	}
}

// openCatalog picks the remote inventory service when configured, otherwise
// the local SQL catalog.
func openCatalog(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (domproduct.Catalog, func(), error) {
	if cfg.UseRemoteInventory() {
		client, err := inventory.New(cfg.InventoryURL, inventory.WithTimeout(cfg.InventoryTimeout))
		if err != nil {
			return nil, nil, err
		}
		log.WithField("url", cfg.InventoryURL).Info("using remote inventory")
		return client, func() {}, nil
	}

	switch cfg.CatalogDriver {
	case "mysql":
		db, err := mysqlstore.Open(ctx, cfg.CatalogDSN)
		if err != nil {
			return nil, nil, err
		}
		return mysqlstore.NewProductRepository(db), func() { _ = db.Close() }, nil
	default:
		db, err := sqlitestore.Open(ctx, cfg.CatalogDSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlitestore.NewProductRepository(db), func() { _ = db.Close() }, nil
	}
}

func seedCatalog(ctx context.Context, svc *productuc.Service, path string, log logrus.FieldLogger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := svc.Seed(ctx, f)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "products": n}).Info("catalog seeded")
	return nil
}
