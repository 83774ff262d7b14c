// Package report formats benchmark results into the run's output table.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/idbench/idbench/bench"
)

// Generate writes the result table: one CSV-style line per scenario in
// execution order, followed by the mean insert time per engine, engines
// in first-seen order.
func Generate(w io.Writer, results []bench.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "=== Benchmark Results ===")
	fmt.Fprintln(w, "db,table,insert_rows,insert_sec,"+
		"point_lookups,point_sec,range_or_orderby_sec")

	for _, r := range results {
		fmt.Fprintf(w, "%s,%s,%d,%.6f,%d,%.6f,%.6f\n",
			r.DB,
			r.Table,
			r.InsertRows,
			r.InsertSeconds,
			r.PointLookupCount,
			r.PointSeconds,
			r.RangeSeconds,
		)
	}

	for _, db := range engineOrder(results) {
		fmt.Fprintf(w, "%s: insert mean=%.6fs\n", db, insertMean(results, db))
	}

	return nil
}

// GenerateJSON writes results as indented JSON to w.
func GenerateJSON(w io.Writer, results []bench.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

func engineOrder(results []bench.Result) []string {
	seen := make(map[string]bool, len(results))

	var order []string

	for _, r := range results {
		if !seen[r.DB] {
			seen[r.DB] = true
			order = append(order, r.DB)
		}
	}

	return order
}

func insertMean(results []bench.Result, db string) float64 {
	var sum float64
	var n int

	for _, r := range results {
		if r.DB == db {
			sum += r.InsertSeconds
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}
