package bench

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/idbench/idbench/workload"
)

// Config holds the per-run measurement parameters. Zero rows is valid:
// every phase still executes and reports near-zero timings.
type Config struct {
	Rows    int
	Lookups int
}

// Run executes every scenario for one engine: open a single connection,
// provision the schema once, then load, sample, and probe each strategy
// table in order. The handle is closed on every exit path. Any failure
// aborts the engine's remaining scenarios.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	eng Engine,
	cfg Config,
	gen *workload.Generator,
) ([]Result, error) {
	logger = logger.With(slog.String("engine", eng.Name))

	db, err := sql.Open(eng.Driver, eng.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", eng.Name, err)
	}
	defer db.Close()

	// One connection keeps timings free of pool churn and matches the
	// strictly sequential protocol.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", eng.Name, err)
	}

	logger.InfoContext(ctx, "provisioning schema",
		slog.Int("tables", len(eng.Tables)),
	)

	if err := Provision(ctx, db, eng); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(eng.Tables))

	for _, tbl := range eng.Tables {
		res, err := runScenario(ctx, logger, db, eng, tbl, cfg, gen)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", eng.Name, tbl.Name, err)
		}

		results = append(results, res)
	}

	return results, nil
}

// runScenario measures one (engine, strategy) pair: batched load, point
// lookup sample, and a single range or ordered-scan probe. Row
// generation happens before any timed window opens.
func runScenario(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	eng Engine,
	tbl Table,
	cfg Config,
	gen *workload.Generator,
) (Result, error) {
	payloads := workload.Payloads(cfg.Rows)

	keys, err := tbl.Strategy.Keys(gen, cfg.Rows)
	if err != nil {
		return Result{}, fmt.Errorf("generate keys: %w", err)
	}

	insertDur, err := loadRows(ctx, db, eng, tbl, payloads, keys)
	if err != nil {
		return Result{}, fmt.Errorf("load: %w", err)
	}

	logger.InfoContext(ctx, "load complete",
		slog.String("table", tbl.Name),
		slog.Int("rows", cfg.Rows),
		slog.Duration("elapsed", insertDur),
	)

	// Engine-assigned keys are unknown to the caller and must be read
	// back before they can be sampled. This read is untimed.
	var ids []int64
	if keys == nil {
		ids, err = fetchAssignedIDs(ctx, db, tbl)
		if err != nil {
			return Result{}, fmt.Errorf("fetch assigned ids: %w", err)
		}

		keys = make([]any, len(ids))
		for i, id := range ids {
			keys[i] = id
		}
	}

	sample := sampleKeys(keys, cfg.Lookups)

	pointDur, err := pointLookups(ctx, db, eng, tbl, sample)
	if err != nil {
		return Result{}, fmt.Errorf("point lookups: %w", err)
	}

	logger.InfoContext(ctx, "point lookups complete",
		slog.String("table", tbl.Name),
		slog.Int("lookups", len(sample)),
		slog.Duration("elapsed", pointDur),
	)

	var probeDur time.Duration
	if tbl.Strategy.RangeProbe() {
		probeDur, _, err = rangeCount(ctx, db, eng, tbl, ids)
	} else {
		probeDur, _, err = orderedScan(ctx, db, tbl)
	}

	if err != nil {
		return Result{}, fmt.Errorf("probe: %w", err)
	}

	logger.InfoContext(ctx, "probe complete",
		slog.String("table", tbl.Name),
		slog.Duration("elapsed", probeDur),
	)

	return Result{
		DB:               eng.Name,
		Table:            tbl.Name,
		InsertRows:       cfg.Rows,
		InsertSeconds:    insertDur.Seconds(),
		PointLookupCount: len(sample),
		PointSeconds:     pointDur.Seconds(),
		RangeSeconds:     probeDur.Seconds(),
	}, nil
}

// loadRows inserts every row inside one transaction, issuing one
// multi-row statement per batch and committing once at the end. The
// timed window runs from the first batch to the commit return. A failed
// batch surfaces immediately; whether earlier batches persist is left to
// the backend's transaction semantics.
func loadRows(
	ctx context.Context,
	db *sql.DB,
	eng Engine,
	tbl Table,
	payloads []string,
	keys []any,
) (time.Duration, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	bounds := batchBounds(len(payloads), tbl.Strategy.BatchSize())

	start := time.Now()

	for _, b := range bounds {
		lo, hi := b[0], b[1]

		var stmt string
		var args []any

		if keys == nil {
			stmt = insertStatement(eng, tbl, hi-lo, 1)

			args = make([]any, 0, hi-lo)
			for _, p := range payloads[lo:hi] {
				args = append(args, p)
			}
		} else {
			stmt = insertStatement(eng, tbl, hi-lo, 2)

			args = make([]any, 0, 2*(hi-lo))
			for i := lo; i < hi; i++ {
				args = append(args, keys[i], payloads[i])
			}
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, fmt.Errorf("batch at row %d: %w", lo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return time.Since(start), nil
}

// batchBounds partitions [0, total) into [lo, hi) pairs of at most size
// rows each.
func batchBounds(total, size int) [][2]int {
	if total <= 0 || size <= 0 {
		return nil
	}

	out := make([][2]int, 0, (total+size-1)/size)

	for lo := 0; lo < total; lo += size {
		hi := lo + size
		if hi > total {
			hi = total
		}

		out = append(out, [2]int{lo, hi})
	}

	return out
}

// insertStatement renders a multi-row INSERT for rows rows of cols bound
// columns in the engine's placeholder style.
func insertStatement(eng Engine, tbl Table, rows, cols int) string {
	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(tbl.Name)

	if cols == 2 {
		sb.WriteString(" (id, payload) VALUES ")
	} else {
		sb.WriteString(" (payload) VALUES ")
	}

	n := 1

	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte(',')
		}

		sb.WriteByte('(')

		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(eng.Placeholder(n))
			n++
		}

		sb.WriteByte(')')
	}

	return sb.String()
}

// fetchAssignedIDs reads back engine-assigned keys in key order.
func fetchAssignedIDs(
	ctx context.Context,
	db *sql.DB,
	tbl Table,
) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id FROM "+tbl.Name+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// sampleKeys selects the first min(lookups, len(keys)) keys in the order
// already held. No shuffling; the positional bias is accepted.
func sampleKeys(keys []any, lookups int) []any {
	if lookups < 0 {
		lookups = 0
	}

	if len(keys) > lookups {
		return keys[:lookups]
	}

	return keys
}

// pointLookups runs one exact-match lookup per sampled key, sequentially
// on the shared connection, timed as a single window. The statement is
// prepared outside the window.
func pointLookups(
	ctx context.Context,
	db *sql.DB,
	eng Engine,
	tbl Table,
	sample []any,
) (time.Duration, error) {
	stmt, err := db.PrepareContext(ctx,
		"SELECT payload FROM "+tbl.Name+" WHERE id = "+eng.Placeholder(1))
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	start := time.Now()

	for _, key := range sample {
		var payload string
		if err := stmt.QueryRowContext(ctx, key).Scan(&payload); err != nil {
			return 0, fmt.Errorf("lookup %v: %w", key, err)
		}
	}

	return time.Since(start), nil
}

// rangeBounds picks the 25th and 75th percentile values from ids, or a
// degenerate zero-width range when no rows were inserted.
func rangeBounds(ids []int64) (int64, int64) {
	if len(ids) == 0 {
		return 0, 0
	}

	return ids[len(ids)/4], ids[len(ids)*3/4]
}

// rangeCount times one COUNT(*) bounded by the percentile values of the
// retrieved ids. The probe runs even over an empty table and then
// matches zero rows.
func rangeCount(
	ctx context.Context,
	db *sql.DB,
	eng Engine,
	tbl Table,
	ids []int64,
) (time.Duration, int64, error) {
	lo, hi := rangeBounds(ids)

	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id BETWEEN %s AND %s",
		tbl.Name, eng.Placeholder(1), eng.Placeholder(2))

	start := time.Now()

	var count int64
	if err := db.QueryRowContext(ctx, q, lo, hi).Scan(&count); err != nil {
		return 0, 0, err
	}

	return time.Since(start), count, nil
}

// orderedScan times an index-ordered traversal capped at
// orderProbeLimit rows, drained fully.
func orderedScan(
	ctx context.Context,
	db *sql.DB,
	tbl Table,
) (time.Duration, int, error) {
	q := fmt.Sprintf("SELECT id FROM %s ORDER BY id LIMIT %d",
		tbl.Name, orderProbeLimit)

	start := time.Now()

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	scanned := 0

	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return 0, 0, err
		}

		scanned++
	}

	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	return time.Since(start), scanned, nil
}
