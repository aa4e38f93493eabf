package main

import (
	"context"
	"os"
	"time"

	"github.com/deppfellow/lightbnb/internal/config"
	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/lib/utils"
	"github.com/deppfellow/lightbnb/internal/logger"
	"github.com/deppfellow/lightbnb/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lightbnb",
		Short:         "Query LightBnB users, properties and reservations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSearchCmd(),
		newPropertyCmd(),
		newUserCmd(),
		newReservationsCmd(),
	)

	return root
}

// withServer builds the application, runs fn as a unit of work named
// after the command and prints its result as JSON. The pool is closed
// before returning, whatever fn did.
func withServer(cmd *cobra.Command, fn func(ctx context.Context, srv *server.Server) (any, error)) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: logger.TimeFormat}).With().Timestamp().Logger()
		bootstrap.Error().Err(err).Msg("failed to load config")
		return err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		loggerService.Shutdown(ctx)
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	var result any
	err = srv.Run(cmd.Context(), cmd.Name(), func(ctx context.Context) error {
		var err error
		result, err = fn(ctx, srv)
		return err
	})
	if err != nil {
		logCommandError(&log, cmd.Name(), err)
		return err
	}

	return utils.PrintJSON(cmd.OutOrStdout(), result)
}

// logCommandError records why a command failed. Database faults and
// rejected writes were already logged by the repository, so they only
// repeat at debug level; rejected input is reported here.
func logCommandError(log *zerolog.Logger, command string, err error) {
	event := log.Error()
	switch errs.KindOf(err) {
	case errs.KindDataFault, errs.KindConflict, errs.KindNotFound:
		event = log.Debug()
	}
	event.Err(err).Str("command", command).Msg("command failed")
}
