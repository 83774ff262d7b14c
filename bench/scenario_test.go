package bench

import (
	"testing"

	"github.com/idbench/idbench/workload"
)

func TestInsertStatement(t *testing.T) {
	mysql := MySQL(ConnParams{})
	pg := Postgres(ConnParams{})

	tests := []struct {
		name string
		eng  Engine
		tbl  Table
		rows int
		cols int
		want string
	}{
		{
			name: "mysql payload only",
			eng:  mysql,
			tbl:  Table{Name: "bench_auto"},
			rows: 3,
			cols: 1,
			want: "INSERT INTO bench_auto (payload) VALUES (?),(?),(?)",
		},
		{
			name: "mysql keyed",
			eng:  mysql,
			tbl:  Table{Name: "bench_uuid_char"},
			rows: 2,
			cols: 2,
			want: "INSERT INTO bench_uuid_char (id, payload) " +
				"VALUES (?, ?),(?, ?)",
		},
		{
			name: "postgres payload only",
			eng:  pg,
			tbl:  Table{Name: "bench_auto"},
			rows: 2,
			cols: 1,
			want: "INSERT INTO bench_auto (payload) VALUES ($1),($2)",
		},
		{
			name: "postgres keyed",
			eng:  pg,
			tbl:  Table{Name: "bench_uuid"},
			rows: 2,
			cols: 2,
			want: "INSERT INTO bench_uuid (id, payload) " +
				"VALUES ($1, $2),($3, $4)",
		},
		{
			name: "single row",
			eng:  pg,
			tbl:  Table{Name: "bench_uuid"},
			rows: 1,
			cols: 2,
			want: "INSERT INTO bench_uuid (id, payload) VALUES ($1, $2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insertStatement(tt.eng, tt.tbl, tt.rows, tt.cols)
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestBatchBounds(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  [][2]int
	}{
		{"empty", 0, 1000, nil},
		{"single partial", 5, 1000, [][2]int{{0, 5}}},
		{"exact fit", 2000, 1000, [][2]int{{0, 1000}, {1000, 2000}}},
		{"trailing partial", 2500, 1000,
			[][2]int{{0, 1000}, {1000, 2000}, {2000, 2500}}},
		{"zero size", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batchBounds(tt.total, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}

			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("bound %d = %v, want %v",
						i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSampleKeys(t *testing.T) {
	keys := make([]any, 10)
	for i := range keys {
		keys[i] = i
	}

	tests := []struct {
		name    string
		lookups int
		want    int
	}{
		{"capped by keys", 20, 10},
		{"capped by lookups", 4, 4},
		{"zero lookups", 0, 0},
		{"negative lookups", -1, 0},
		{"exact", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleKeys(keys, tt.lookups)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	// The sample must preserve the held order.
	got := sampleKeys(keys, 3)
	for i := 0; i < 3; i++ {
		if got[i] != i {
			t.Errorf("sample[%d] = %v, want %d", i, got[i], i)
		}
	}
}

func TestRangeBounds(t *testing.T) {
	ids := make([]int64, 1000)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	lo, hi := rangeBounds(ids)

	if lo > hi {
		t.Errorf("lo %d > hi %d", lo, hi)
	}
	if lo != ids[250] {
		t.Errorf("lo = %d, want %d", lo, ids[250])
	}
	if hi != ids[750] {
		t.Errorf("hi = %d, want %d", hi, ids[750])
	}
}

func TestRangeBoundsEmpty(t *testing.T) {
	lo, hi := rangeBounds(nil)
	if lo != 0 || hi != 0 {
		t.Errorf("got (%d, %d), want degenerate (0, 0)", lo, hi)
	}
}

func TestStrategyVariants(t *testing.T) {
	gen := workload.NewGenerator(42)

	tests := []struct {
		strategy   Strategy
		id         string
		batch      int
		rangeProbe bool
		keyed      bool
	}{
		{Sequential, "auto", 2000, true, false},
		{TextUUID, "uuid_char", 1000, false, true},
		{BinaryUUID, "uuid_bin", 1000, false, true},
		{NativeUUID, "uuid", 1000, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := tt.strategy.ID(); got != tt.id {
				t.Errorf("ID = %q, want %q", got, tt.id)
			}
			if got := tt.strategy.BatchSize(); got != tt.batch {
				t.Errorf("BatchSize = %d, want %d", got, tt.batch)
			}
			if got := tt.strategy.RangeProbe(); got != tt.rangeProbe {
				t.Errorf("RangeProbe = %v, want %v", got, tt.rangeProbe)
			}

			keys, err := tt.strategy.Keys(gen, 3)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}

			if tt.keyed && len(keys) != 3 {
				t.Errorf("len(keys) = %d, want 3", len(keys))
			}
			if !tt.keyed && keys != nil {
				t.Errorf("expected nil keys, got %v", keys)
			}
		})
	}
}

func TestEngineTables(t *testing.T) {
	tests := []struct {
		name   string
		eng    Engine
		driver string
		tables []string
	}{
		{
			name:   "mysql",
			eng:    MySQL(ConnParams{Host: "h", Port: 1, Database: "d"}),
			driver: "mysql",
			tables: []string{"bench_auto", "bench_uuid_char", "bench_uuid_bin"},
		},
		{
			name:   "postgres",
			eng:    Postgres(ConnParams{Host: "h", Port: 1, Database: "d"}),
			driver: "pgx",
			tables: []string{"bench_auto", "bench_uuid"},
		},
		{
			name:   "sqlite",
			eng:    SQLite("x.db"),
			driver: "sqlite3",
			tables: []string{"bench_auto", "bench_uuid_char", "bench_uuid_bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.eng.Driver != tt.driver {
				t.Errorf("driver = %q, want %q", tt.eng.Driver, tt.driver)
			}

			if len(tt.eng.Tables) != len(tt.tables) {
				t.Fatalf("tables = %d, want %d",
					len(tt.eng.Tables), len(tt.tables))
			}

			for i, want := range tt.tables {
				if tt.eng.Tables[i].Name != want {
					t.Errorf("table %d = %q, want %q",
						i, tt.eng.Tables[i].Name, want)
				}
			}

			// The first table is always the engine-keyed one.
			if !tt.eng.Tables[0].Strategy.RangeProbe() {
				t.Error("first table should use the sequential strategy")
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	mysql := MySQL(ConnParams{})
	if got := mysql.Placeholder(3); got != "?" {
		t.Errorf("mysql placeholder = %q, want ?", got)
	}

	pg := Postgres(ConnParams{})
	if got := pg.Placeholder(3); got != "$3" {
		t.Errorf("postgres placeholder = %q, want $3", got)
	}
}
