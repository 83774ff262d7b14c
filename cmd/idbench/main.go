// Package main provides the CLI entry point for idbench, a benchmark
// comparing primary-key strategies across relational database engines.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/idbench/idbench/bench"
	"github.com/idbench/idbench/report"
	"github.com/idbench/idbench/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "idbench",
		Short: "Benchmark sequential vs UUID primary keys across database engines",
		Long: `Idbench measures how primary-key strategy affects relational database
performance. For each configured engine it rebuilds one table per key
strategy (engine-assigned sequential integer, random UUID as CHAR(36),
random UUID as 16-byte binary), bulk-loads generated rows in batches,
samples point lookups by primary key, and probes index-ordered access,
then reports the timings side by side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		rows       int
		lookups    int
		seed       int64
		engines    []string
		outputJSON bool

		mysqlParams bench.ConnParams
		pgParams    bench.ConnParams
		sqlitePath  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the key-strategy benchmarks against the configured engines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, runConfig{
				rows:       rows,
				lookups:    lookups,
				seed:       seed,
				engines:    engines,
				outputJSON: outputJSON,
				mysql:      mysqlParams,
				postgres:   pgParams,
				sqlitePath: sqlitePath,
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&rows, "rows", 100000,
		"Number of rows to insert for each table")
	flags.IntVar(&lookups, "lookups", 20000,
		"Number of point lookups by primary key")
	flags.Int64Var(&seed, "seed", 0,
		"Random seed for key generation (0 = use current time)")
	flags.StringSliceVar(&engines, "engines", []string{"mysql", "postgres"},
		"Engines to benchmark (mysql, postgres, sqlite)")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of the result table")

	flags.StringVar(&mysqlParams.Host, "mysql-host", "127.0.0.1",
		"MySQL host")
	flags.IntVar(&mysqlParams.Port, "mysql-port", 3306,
		"MySQL port")
	flags.StringVar(&mysqlParams.User, "mysql-user", "bench",
		"MySQL user")
	flags.StringVar(&mysqlParams.Password, "mysql-password", "bench",
		"MySQL password")
	flags.StringVar(&mysqlParams.Database, "mysql-db", "idbench",
		"MySQL database")

	flags.StringVar(&pgParams.Host, "pg-host", "127.0.0.1",
		"PostgreSQL host")
	flags.IntVar(&pgParams.Port, "pg-port", 5432,
		"PostgreSQL port")
	flags.StringVar(&pgParams.User, "pg-user", "bench",
		"PostgreSQL user")
	flags.StringVar(&pgParams.Password, "pg-password", "bench",
		"PostgreSQL password")
	flags.StringVar(&pgParams.Database, "pg-db", "idbench",
		"PostgreSQL database")

	flags.StringVar(&sqlitePath, "sqlite-path", "idbench.db",
		"SQLite database file")

	return cmd
}

type runConfig struct {
	rows       int
	lookups    int
	seed       int64
	engines    []string
	outputJSON bool
	mysql      bench.ConnParams
	postgres   bench.ConnParams
	sqlitePath string
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	if cfg.rows <= 0 {
		return fmt.Errorf("--rows must be > 0")
	}

	if cfg.lookups < 0 {
		return fmt.Errorf("--lookups must be >= 0")
	}

	if len(cfg.engines) == 0 {
		return fmt.Errorf(
			"at least one engine must be specified via --engines",
		)
	}

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := workload.NewGenerator(seed)

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("rows", cfg.rows),
		slog.Int("lookups", cfg.lookups),
		slog.Int64("seed", seed),
		slog.Any("engines", cfg.engines),
	)

	benchCfg := bench.Config{
		Rows:    cfg.rows,
		Lookups: cfg.lookups,
	}

	// Engines run strictly one after another so timings never see
	// cross-engine contention.
	var results []bench.Result

	for _, name := range cfg.engines {
		eng, err := resolveEngine(name, cfg)
		if err != nil {
			return err
		}

		engResults, err := bench.Run(ctx, logger, eng, benchCfg, gen)
		if err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}

		results = append(results, engResults...)
	}

	if cfg.outputJSON {
		if err := report.GenerateJSON(os.Stdout, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(os.Stdout, results); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

func resolveEngine(name string, cfg runConfig) (bench.Engine, error) {
	switch name {
	case "mysql":
		return bench.MySQL(cfg.mysql), nil
	case "postgres":
		return bench.Postgres(cfg.postgres), nil
	case "sqlite":
		return bench.SQLite(cfg.sqlitePath), nil
	default:
		return bench.Engine{}, fmt.Errorf("unknown engine %q", name)
	}
}
