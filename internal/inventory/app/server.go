package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"storecatalog/config"
	"storecatalog/internal/auth"
	"storecatalog/internal/inventory/app/web"
	"storecatalog/internal/inventory/app/web/handlers"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/internal/inventory/internal/storage"
	"storecatalog/internal/inventory/pkg/clients"
	"storecatalog/migrations/catalog"
	"storecatalog/pkg/business/service"
	"storecatalog/pkg/dbconnect"
	"storecatalog/pkg/dbconnect/migration"
	"storecatalog/pkg/dbconnect/postgres"
	"storecatalog/pkg/dbconnect/sqlite"
	"storecatalog/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type closableDatabase interface {
	dbconnect.Database
	Close() error
}

// CatalogServer связывает клиент Data API, локальный кэш, синхронизацию и HTTP API.
type CatalogServer struct {
	cfg  *config.AppConfig
	log  *logger.BaseLogger
	conn closableDatabase
	db   *sql.DB

	session  *clients.Session
	client   *clients.RecordsClient
	repo     *storage.ProductRepository
	meta     *storage.MetadataRepository
	products *business.ProductService
	syncer   *business.SyncService
}

func NewCatalogServer(cfg *config.AppConfig, log *logger.BaseLogger) (*CatalogServer, error) {
	conn := newConnector(cfg, log)
	db, err := conn.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Store.Driver, err)
	}

	if err := migration.Apply(db, conn.Dialect(), catalog.Migrations()...); err != nil {
		conn.Close()
		return nil, err
	}
	log.Log("Catalog migrations applied successfully!")

	session := clients.NewSession()
	client := clients.NewRecordsClient(cfg.Remote, session, log.WithPrefix("[RecordsClient]"))
	repo := storage.NewProductRepository(db, conn.Dialect(), log.WithPrefix("[ProductRepository]"))
	meta := storage.NewMetadataRepository(db, conn.Dialect())

	s := &CatalogServer{
		cfg:      cfg,
		log:      log,
		conn:     conn,
		db:       db,
		session:  session,
		client:   client,
		repo:     repo,
		meta:     meta,
		products: business.NewProductService(repo, service.NewTextService(), log.WithPrefix("[ProductService]")),
		syncer:   business.NewSyncService(client, repo, meta, log.WithPrefix("[SyncService]")),
	}
	if err := s.syncer.Restore(context.Background()); err != nil {
		log.Warn("Failed to restore last sync time: %v", err)
	}
	return s, nil
}

func newConnector(cfg *config.AppConfig, log logger.Logger) closableDatabase {
	if cfg.Store.Driver == config.DriverPostgres {
		return postgres.NewPgConnector(&cfg.Postgres, log)
	}
	return sqlite.NewSqliteConnector(cfg.Store.Sqlite)
}

// Handler - HTTP API поверх каталога. baseCtx ограничивает фоновые синхронизации.
func (s *CatalogServer) Handler(baseCtx context.Context) http.Handler {
	return web.SetupRoutes(
		auth.RequireRole(s.cfg.Server.JWTSecret, auth.RoleAdmin),
		handlers.NewHealthHandler(s.db, s.log.WithPrefix("[HealthHandler]")),
		handlers.NewProductHandler(s.products, s.repo, s.cfg.Server.CurrencySymbol, s.log.WithPrefix("[ProductHandler]")),
		handlers.NewBarcodeHandler(s.products, s.log.WithPrefix("[BarcodeHandler]")),
		handlers.NewSyncHandler(baseCtx, s.syncer, s.log.WithPrefix("[SyncHandler]")),
		handlers.NewExportHandler(s.repo, s.log.WithPrefix("[ExportHandler]")),
	)
}

// Run обслуживает HTTP API, пока ctx не отменён.
func (s *CatalogServer) Run(ctx context.Context) error {
	if s.cfg.Server.JWTSecret == "" {
		s.log.Warn("server.jwt_secret is empty: sync endpoints are not protected")
	}
	if s.cfg.Sync.OnStart {
		if err := s.syncer.TryStart(ctx); err != nil {
			s.log.Warn("Sync on start skipped: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Log("Запущен сервис каталога %s/api/", s.cfg.Server.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Log("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// SSE-подписки держат соединения: закрываем их до Shutdown
	s.repo.Close()
	s.syncer.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// SyncOnce выполняет одну синхронизацию и возвращает её итог.
func (s *CatalogServer) SyncOnce(ctx context.Context) (models.SyncResult, error) {
	return s.syncer.Sync(ctx)
}

// Export пишет закэшированный каталог в XLSX-файл.
func (s *CatalogServer) Export(ctx context.Context, path string) (int, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := business.ExportProducts(f, products); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	s.log.Log("Exported %d products to %s", len(products), path)
	return len(products), nil
}

// Close закрывает сессию Data API и соединение с базой.
func (s *CatalogServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("Failed to close remote session: %v", err)
	}
	s.repo.Close()
	s.syncer.Close()
	return s.conn.Close()
}
