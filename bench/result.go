// Package bench runs the primary-key benchmark protocol against
// relational engines: provision the schema, bulk-load generated rows in
// batches, sample point lookups, and probe index-ordered access, one
// measured scenario per (engine, strategy) table.
package bench

// Result holds the measurements from one scenario. It is created once
// when the scenario completes and never mutated.
type Result struct {
	DB               string  `json:"db"`
	Table            string  `json:"table"`
	InsertRows       int     `json:"insert_rows"`
	InsertSeconds    float64 `json:"insert_sec"`
	PointLookupCount int     `json:"point_lookups"`
	PointSeconds     float64 `json:"point_sec"`
	RangeSeconds     float64 `json:"range_or_orderby_sec"`
}
