package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alexjait/AuditBookContract/internal/api"
	"github.com/alexjait/AuditBookContract/internal/config"
	"github.com/alexjait/AuditBookContract/internal/environment"
	"github.com/alexjait/AuditBookContract/internal/record"
	"github.com/alexjait/AuditBookContract/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// NewLoader returns a loader that re-reads the dotenv files and the definition
// file on every call, then resolves the record against the combined environment.
func NewLoader(cfg config.Config) storage.Loader {
	return func() (record.Record, error) {
		lookup, err := environment.New(cfg.DotenvFiles...)
		if err != nil {
			return record.Record{}, err
		}

		def := record.DefaultDefinition()
		if cfg.DefinitionFile != "" {
			def, err = record.LoadDefinitionFile(cfg.DefinitionFile)
			if err != nil {
				return record.Record{}, fmt.Errorf("load definition %s: %w", cfg.DefinitionFile, err)
			}
		}

		return record.Resolve(def, lookup), nil
	}
}

// LoadRecord resolves the record once, applying strict validation when configured.
func LoadRecord(cfg config.Config) (record.Record, error) {
	rec, err := NewLoader(cfg)()
	if err != nil {
		return record.Record{}, err
	}
	if cfg.Strict {
		if err := rec.Validate(); err != nil {
			return record.Record{}, fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
		}
	}
	return rec, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.NewMemoryStorage(NewLoader(cfg), storage.WithStrict(cfg.Strict))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration record: %w", err)
	}

	rec, _ := store.Get()
	for _, p := range rec.Unresolved {
		logger.Warn("environment placeholder not set",
			zap.String("network", p.Network),
			zap.String("field", p.Field),
			zap.String("variable", p.Variable),
		)
	}

	handler := api.NewHandler(store, api.WithLogger(logger))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, apiRouter),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
