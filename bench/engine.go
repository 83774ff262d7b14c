package bench

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// ConnParams holds the connection settings for a server-based engine.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Table binds a strategy to the concrete table it runs against.
type Table struct {
	Name     string
	Create   string
	Strategy Strategy
}

// Engine describes one relational backend: how to reach it through
// database/sql, how it renders bind placeholders, and the ordered set of
// benchmark tables it runs. Scenario order follows the table order.
type Engine struct {
	Name   string
	Driver string
	DSN    string

	// Placeholder renders the bind marker for the 1-based position i.
	Placeholder func(i int) string

	Tables []Table
}

func question(int) string { return "?" }

func dollar(i int) string { return "$" + strconv.Itoa(i) }

// MySQL returns the MySQL engine: InnoDB tables for the auto-increment,
// CHAR(36), and BINARY(16) key strategies.
func MySQL(p ConnParams) Engine {
	return Engine{
		Name:   "mysql",
		Driver: "mysql",
		DSN: fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			p.User, p.Password, p.Host, p.Port, p.Database),
		Placeholder: question,
		Tables: []Table{
			{
				Name: "bench_auto",
				Create: `CREATE TABLE bench_auto (
					id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
					payload VARCHAR(100) NOT NULL
				) ENGINE=InnoDB`,
				Strategy: Sequential,
			},
			{
				Name: "bench_uuid_char",
				Create: `CREATE TABLE bench_uuid_char (
					id CHAR(36) NOT NULL PRIMARY KEY,
					payload VARCHAR(100) NOT NULL
				) ENGINE=InnoDB`,
				Strategy: TextUUID,
			},
			{
				Name: "bench_uuid_bin",
				Create: `CREATE TABLE bench_uuid_bin (
					id BINARY(16) NOT NULL PRIMARY KEY,
					payload VARCHAR(100) NOT NULL
				) ENGINE=InnoDB`,
				Strategy: BinaryUUID,
			},
		},
	}
}

// Postgres returns the PostgreSQL engine. It runs the native UUID column
// type instead of separate text and binary variants, so its matrix is
// two tables: BIGSERIAL and UUID.
func Postgres(p ConnParams) Engine {
	return Engine{
		Name:   "postgres",
		Driver: "pgx",
		DSN: fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			p.Host, p.Port, p.User, p.Password, p.Database),
		Placeholder: dollar,
		Tables: []Table{
			{
				Name: "bench_auto",
				Create: `CREATE TABLE bench_auto (
					id BIGSERIAL PRIMARY KEY,
					payload TEXT NOT NULL
				)`,
				Strategy: Sequential,
			},
			{
				Name: "bench_uuid",
				Create: `CREATE TABLE bench_uuid (
					id UUID PRIMARY KEY,
					payload TEXT NOT NULL
				)`,
				Strategy: NativeUUID,
			},
		},
	}
}

// SQLite returns a file-backed engine covering all three key strategies.
// It needs no server, which also makes it the substrate for this
// package's end-to-end tests.
func SQLite(path string) Engine {
	return Engine{
		Name:        "sqlite",
		Driver:      "sqlite3",
		DSN:         path,
		Placeholder: question,
		Tables: []Table{
			{
				Name: "bench_auto",
				Create: `CREATE TABLE bench_auto (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					payload TEXT NOT NULL
				)`,
				Strategy: Sequential,
			},
			{
				Name: "bench_uuid_char",
				Create: `CREATE TABLE bench_uuid_char (
					id TEXT NOT NULL PRIMARY KEY,
					payload TEXT NOT NULL
				)`,
				Strategy: TextUUID,
			},
			{
				Name: "bench_uuid_bin",
				Create: `CREATE TABLE bench_uuid_bin (
					id BLOB NOT NULL PRIMARY KEY,
					payload TEXT NOT NULL
				)`,
				Strategy: BinaryUUID,
			},
		},
	}
}

// Provision drops and recreates every benchmark table for the engine, in
// table order. Running it twice leaves the same empty tables.
func Provision(ctx context.Context, db *sql.DB, eng Engine) error {
	for _, tbl := range eng.Tables {
		drop := "DROP TABLE IF EXISTS " + tbl.Name
		if _, err := db.ExecContext(ctx, drop); err != nil {
			return fmt.Errorf("%s: drop %s: %w", eng.Name, tbl.Name, err)
		}

		if _, err := db.ExecContext(ctx, tbl.Create); err != nil {
			return fmt.Errorf("%s: create %s: %w", eng.Name, tbl.Name, err)
		}
	}

	return nil
}
