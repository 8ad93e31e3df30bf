// Package server wires the ledger together: storage, ledger status
// checks, evidence storage, rate limiting and the HTTP server, and runs
// it until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/logging"
	"github.com/dmitrijs2005/geoledger/internal/server/anchor"
	"github.com/dmitrijs2005/geoledger/internal/server/config"
	"github.com/dmitrijs2005/geoledger/internal/server/evidence"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geoledger/internal/server/rest"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/redis/go-redis/v9"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	rdb     *redis.Client
	server  *rest.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, logOutput)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	m, err := repomanager.Open(c.DatabaseDSN, repomanager.Options{SeedDemo: c.SeedDemo})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var checker anchor.StatusChecker = anchor.Optimistic{}
	if c.HorizonURL != "" {
		checker = anchor.NewHorizon(c.HorizonURL, c.HorizonTimeout)
	}

	var store services.EvidenceStore
	if c.EvidenceConfigured() {
		s3, err := evidence.NewS3Store(ctx, evidence.Settings{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Gateways:     c.EvidenceGateways,
		})
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("evidence storage init error: %w", err)
		}
		store = s3
	}

	var rdb *redis.Client
	var counter rest.RateCounter = rest.NewMemoryCounter(time.Now)
	if c.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		counter = rest.NewRedisCounter(rdb)
	}

	h := rest.NewHandler(
		services.NewDonationService(m, checker, time.Now),
		services.NewRegistryService(m, time.Now),
		services.NewEvidenceService(store, m, time.Now),
		services.NewReconciliationService(m),
		logger,
	)
	router := rest.NewRouter(h, rest.RouterOptions{
		APIToken:    c.APIBearerToken,
		JWTSecret:   c.JWTSecret,
		CORSOrigins: c.CORSOrigins,
		RateCounter: counter,
		RateLimit:   c.RateLimit,
		RateWindow:  c.RateWindow,
	}, logger)

	logger.Info(ctx, "storage selected",
		"durable", m.Durable(),
		"evidence", store != nil,
		"horizon", c.HorizonURL != "",
		"redis", rdb != nil,
	)

	return &App{
		config:  c,
		logger:  logger,
		manager: m,
		rdb:     rdb,
		server:  rest.NewHTTPServer(c.HTTPAddr, router, c.ShutdownTimeout, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or the
// server fails, then releases the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.manager.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
