package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/database"
	"github.com/cdtdelta/tiaalarms/internal/export"
	"github.com/cdtdelta/tiaalarms/internal/query"
)

// queryOptions are the filters of the query command.
type queryOptions struct {
	run       string
	db        string
	structure string
	subGroup  string
	message   string
	where     string
	orderBy   string
	minKey    int
	maxKey    int
	limit     int
	page      int
}

func (a *app) newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print stored alarm records as an alarm table",
		Long: `Filters the records of a stored run and prints them in alarm table CSV
format. Without --run the latest run is used; --run all searches every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sql, sqlArgs, countSQL, countArgs, err := buildQuery(store, opts)
			if err != nil {
				return err
			}

			total, err := store.ExecuteCountQuery(countSQL, countArgs)
			if err != nil {
				return err
			}
			records, err := store.ExecuteQuery(sql, sqlArgs)
			if err != nil {
				return err
			}
			a.logger.Info("Query complete", zap.Int("records", len(records)), zap.Int64("total", total))

			return export.WriteAlarmsTo(cmd.OutOrStdout(), records)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.run, "run", "", "run id, or \"all\" (default latest run)")
	f.StringVar(&opts.db, "db", "", "data block name")
	f.StringVar(&opts.structure, "structure", "", "structure name (Alm, AlmLong, AlmShort, Sign)")
	f.StringVar(&opts.subGroup, "subgroup", "", "subgroup name")
	f.StringVar(&opts.message, "message", "", "substring of the message text")
	f.StringVar(&opts.where, "where", "", "raw SQL WHERE clause, replaces the other filters")
	f.StringVar(&opts.orderBy, "order-by", "", "column to sort by (default consolidated order)")
	f.IntVar(&opts.minKey, "min-key", -1, "smallest custom key")
	f.IntVar(&opts.maxKey, "max-key", -1, "largest custom key")
	f.IntVar(&opts.limit, "limit", 0, "page size, 0 for all records")
	f.IntVar(&opts.page, "page", 1, "page number (1-based)")
	return cmd
}

// buildQuery turns the options into a SELECT and its matching COUNT.
func buildQuery(store database.Store, opts queryOptions) (string, []interface{}, string, []interface{}, error) {
	if opts.where != "" {
		rq := query.NewRaw(opts.limit, opts.where)
		rq.SetDialect(store.Dialect())
		rq.SetPage(opts.page)
		if err := rq.OrderBy(opts.orderBy); err != nil {
			return "", nil, "", nil, err
		}
		sql, args := rq.Build()
		return sql, args, "SELECT COUNT(*) FROM " + query.Table + " WHERE " + opts.where, nil, nil
	}

	q := query.New(opts.limit)
	q.SetDialect(store.Dialect())
	q.SetPage(opts.page)
	if err := q.OrderBy(opts.orderBy); err != nil {
		return "", nil, "", nil, err
	}

	switch opts.run {
	case "all":
	case "":
		latest, err := store.LatestRun()
		if errors.Is(err, database.ErrNoRuns) {
			return "", nil, "", nil, fmt.Errorf("store %s holds no runs", store.Path())
		}
		if err != nil {
			return "", nil, "", nil, err
		}
		q.AddPredicate(query.Simple("run_id", query.Equal, latest.ID))
	default:
		q.AddPredicate(query.Simple("run_id", query.Equal, opts.run))
	}

	if opts.db != "" {
		q.AddPredicate(query.Simple("db", query.Equal, opts.db))
	}
	if opts.structure != "" {
		q.AddPredicate(query.Simple("structure", query.Equal, opts.structure))
	}
	if opts.subGroup != "" {
		q.AddPredicate(query.Simple("subgroup", query.Equal, opts.subGroup))
	}
	if opts.message != "" {
		q.AddPredicate(query.Simple("message", query.Like, opts.message))
	}

	switch {
	case opts.minKey >= 0 && opts.maxKey >= 0:
		q.AddPredicate(query.KeyRange(opts.minKey, opts.maxKey))
	case opts.minKey >= 0:
		q.AddPredicate(query.Simple("custom_key", query.GreaterOrEqual, opts.minKey))
	case opts.maxKey >= 0:
		q.AddPredicate(query.Simple("custom_key", query.LessOrEqual, opts.maxKey))
	}

	sql, args := q.Build()
	countSQL, countArgs := q.BuildCount()
	return sql, args, countSQL, countArgs, nil
}

// openStore opens the configured run store.
func (a *app) openStore() (database.Store, error) {
	if a.cfg.Store.Driver == "" {
		return nil, errors.New("no run store configured, set store.driver and store.dsn")
	}
	store, err := database.OpenStore(a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}
