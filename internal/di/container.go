// Package di provides dependency injection wiring for the watchlog CLI.
package di

import (
	"github.com/samber/do/v2"

	"github.com/watchlogapp/watchlog/internal/config"
	"github.com/watchlogapp/watchlog/internal/logger"
	"github.com/watchlogapp/watchlog/internal/metadata"
	"github.com/watchlogapp/watchlog/internal/metadata/tmdb"
	"github.com/watchlogapp/watchlog/internal/service"
	"github.com/watchlogapp/watchlog/internal/store"
	"github.com/watchlogapp/watchlog/internal/store/sqlite"
	"github.com/watchlogapp/watchlog/internal/validation"
)

// NewContainer creates the DI container with all providers registered.
// The config overrides come from the parsed command line.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, overrides)

	// Core infrastructure
	do.Provide(injector, ProvideConfig)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideValidator)

	// Persistence
	do.Provide(injector, ProvideStore)

	// Metadata gateway
	do.Provide(injector, ProvideGateway)

	// Services
	do.Provide(injector, ProvideReconcileService)
	do.Provide(injector, ProvideCatalogService)

	return injector
}

// ProvideConfig loads the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides := do.MustInvoke[config.Overrides](i)
	return config.Load(overrides)
}

// ProvideLogger builds the application logger from config.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}

// ProvideValidator builds the shared input validator.
func ProvideValidator(do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the SQLite catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Debug("catalog store opened", "path", cfg.Database.Path)
	return &StoreHandle{Store: s}, nil
}

// GatewayHandle holds the optional metadata gateway.
// Searcher is nil when no TMDB token is configured; the reconcile service
// reports remote lookup as unavailable in that case instead of failing.
type GatewayHandle struct {
	Searcher metadata.Searcher
}

// ProvideGateway builds the TMDB gateway if a token is configured.
func ProvideGateway(i do.Injector) (*GatewayHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.TMDB.Token == "" {
		log.Debug("no TMDB token configured, remote lookup disabled")
		return &GatewayHandle{}, nil
	}

	client := tmdb.New(cfg.TMDB.Token, log.Logger, tmdb.WithLanguage(cfg.TMDB.Language))
	return &GatewayHandle{Searcher: client}, nil
}

// ProvideReconcileService builds the add-or-show reconciliation service.
func ProvideReconcileService(i do.Injector) (*service.ReconcileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gateway := do.MustInvoke[*GatewayHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReconcileService(storeHandle.Store, gateway.Searcher, log.Logger), nil
}

// ProvideCatalogService builds the catalog command/query service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, v, log.Logger), nil
}
