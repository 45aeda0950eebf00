// Package main provides the watchlog command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/samber/do/v2"

	"github.com/watchlogapp/watchlog/internal/config"
	"github.com/watchlogapp/watchlog/internal/di"
	"github.com/watchlogapp/watchlog/internal/logger"
	"github.com/watchlogapp/watchlog/internal/service"
)

// CLI is the complete command structure for watchlog.
type CLI struct {
	// Global flags
	DB       string `help:"Path to the catalog database" env:"WATCHLOG_DB"`
	LogLevel string `help:"Log level (debug, info, warn, error)"`
	Env      string `help:"Environment (development, staging, production)"`
	Language string `help:"Metadata language (e.g. en-US)"`
	EnvFile  string `help:"Path to .env file" default:".env"`

	Add     AddCmd     `cmd:"" help:"Add a title, resolving it against local entries and remote metadata"`
	List    ListCmd    `cmd:"" help:"List titles"`
	Random  RandomCmd  `cmd:"" help:"Pick a random title matching the filters"`
	Seen    SeenCmd    `cmd:"" help:"Mark a title seen (or unseen)"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a title"`
	Suggest SuggestCmd `cmd:"" help:"Show loose-match suggestions for typed text"`
	Genres  GenresCmd  `cmd:"" help:"List genres with title counts"`
	Tag     TagCmd     `cmd:"" help:"Manage tags"`
}

// App carries the wired services into command Run methods.
type App struct {
	Reconcile *service.ReconcileService
	Catalog   *service.CatalogService
	Logger    *logger.Logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("watchlog"),
		kong.Description("Personal media watchlist manager."),
		kong.UsageOnError(),
	)

	injector := di.NewContainer(config.Overrides{
		Environment: cli.Env,
		LogLevel:    cli.LogLevel,
		DBPath:      cli.DB,
		Language:    cli.Language,
		EnvFile:     cli.EnvFile,
	})

	app, err := buildApp(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watchlog: %v\n", err)
		os.Exit(1)
	}

	runErr := ctx.Run(app)

	if err := injector.Shutdown(); err != nil {
		app.Logger.Error("shutdown error", "error", err)
	}

	if runErr != nil {
		app.Logger.Fatal("command failed", "error", runErr)
	}
}

func buildApp(injector do.Injector) (*App, error) {
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return nil, err
	}
	reconcile, err := do.Invoke[*service.ReconcileService](injector)
	if err != nil {
		return nil, err
	}
	catalog, err := do.Invoke[*service.CatalogService](injector)
	if err != nil {
		return nil, err
	}

	return &App{
		Reconcile: reconcile,
		Catalog:   catalog,
		Logger:    log,
	}, nil
}
