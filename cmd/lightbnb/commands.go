package main

import (
	"context"
	"errors"

	"github.com/deppfellow/lightbnb/internal/repository"
	"github.com/deppfellow/lightbnb/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// searchFlags maps each search flag onto its filter key.
var searchFlags = []struct {
	flag, key, usage string
}{
	{"city", repository.FilterCity, "city name, or part of it (case-insensitive)"},
	{"minimum-price-per-night", repository.FilterMinimumPricePerNight, "lowest nightly price, in cents"},
	{"maximum-price-per-night", repository.FilterMaximumPricePerNight, "highest nightly price, in cents"},
	{"minimum-rating", repository.FilterMinimumRating, "lowest average review rating (0-5)"},
}

// filterValues collects the search flags that were set on the command
// line. Unset flags stay absent rather than empty.
func filterValues(flags *pflag.FlagSet) map[string]string {
	values := map[string]string{}
	for _, f := range searchFlags {
		if flags.Changed(f.flag) {
			values[f.key], _ = flags.GetString(f.flag)
		}
	}
	return values
}

func newSearchCmd() *cobra.Command {
	var (
		includeUnreviewed bool
		limit             int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search properties, cheapest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := filterValues(cmd.Flags())

			return withServer(cmd, func(ctx context.Context, srv *server.Server) (any, error) {
				filter, err := repository.ParsePropertyFilter(values)
				if err != nil {
					return nil, err
				}
				filter.IncludeUnreviewed = includeUnreviewed

				return srv.Repositories.Properties.Search(ctx, filter, limit)
			})
		},
	}

	for _, f := range searchFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().BoolVar(&includeUnreviewed, "include-unreviewed", false, "also list properties without reviews")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultLimit, "maximum number of results")

	return cmd
}

func newPropertyCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "property",
		Short: "Show one property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServer(cmd, func(ctx context.Context, srv *server.Server) (any, error) {
				return srv.Repositories.Properties.GetByID(ctx, id)
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "property id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newUserCmd() *cobra.Command {
	var (
		email string
		id    int64
	)

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Look up a user by email or id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServer(cmd, func(ctx context.Context, srv *server.Server) (any, error) {
				switch {
				case cmd.Flags().Changed("email"):
					return srv.Repositories.Users.GetByEmail(ctx, email)
				case cmd.Flags().Changed("id"):
					return srv.Repositories.Users.GetByID(ctx, id)
				default:
					return nil, errors.New("one of --email or --id is required")
				}
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "exact email address")
	cmd.Flags().Int64Var(&id, "id", 0, "user id")
	cmd.MarkFlagsMutuallyExclusive("email", "id")
	cmd.MarkFlagsOneRequired("email", "id")

	return cmd
}

func newReservationsCmd() *cobra.Command {
	var (
		guestID int64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List a guest's past reservations, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServer(cmd, func(ctx context.Context, srv *server.Server) (any, error) {
				return srv.Repositories.Reservations.ListPastForGuest(ctx, guestID, limit)
			})
		},
	}

	cmd.Flags().Int64Var(&guestID, "guest-id", 0, "guest (user) id")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultLimit, "maximum number of results")
	_ = cmd.MarkFlagRequired("guest-id")

	return cmd
}
