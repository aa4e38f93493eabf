// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - repositories built on that pool
//
// The pool is opened once in New and released in Shutdown; nothing else
// opens or closes it.
package server

import (
	"context"
	"fmt"

	"github.com/deppfellow/lightbnb/internal/config"
	"github.com/deppfellow/lightbnb/internal/database"
	"github.com/deppfellow/lightbnb/internal/repository"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/lightbnb/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled it still exists, with a nil application.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	Repositories *repository.Repositories
}

// New opens the database (ping included) and builds the repositories.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Repositories:  repository.NewRepositories(db.Pool, logger),
	}, nil
}

// Run executes fn as one named unit of work.
//
// With New Relic enabled, fn runs inside a transaction carried by ctx, so
// the queries it issues show up as datastore segments and a returned
// error is noticed on the transaction.
func (s *Server) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	app := s.LoggerService.GetApplication()
	if app == nil {
		return fn(ctx)
	}

	txn := app.StartTransaction(name)
	defer txn.End()

	err := fn(newrelic.NewContext(ctx, txn))
	if err != nil {
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	return err
}

// Shutdown closes the database pool and flushes New Relic within the
// deadline of ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	s.LoggerService.Shutdown(ctx)

	s.Logger.Debug().Msg("server shut down")
	return nil
}
