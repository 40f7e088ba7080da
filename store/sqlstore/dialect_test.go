package sqlstore

import (
	"slices"
	"strings"
	"testing"

	"github.com/etnz/finance/store"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect Dialect
		source  string
		wantErr bool
	}{
		{"mysql://me:pw@tcp(localhost:3306)/finance", MySQL, "me:pw@tcp(localhost:3306)/finance", false},
		{"postgres://me:pw@localhost/finance?sslmode=disable", Postgres, "postgres://me:pw@localhost/finance?sslmode=disable", false},
		{"postgresql://localhost/finance", Postgres, "postgresql://localhost/finance", false},
		{"sqlite://finance.db", 0, "", true},
		{"", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d, src, err := ParseDSN(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDSN(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			}
			if d != tt.dialect || src != tt.source {
				t.Errorf("ParseDSN(%q) = %v, %q; want %v, %q", tt.dsn, d, src, tt.dialect, tt.source)
			}
		})
	}
}

func TestTable_Statements(t *testing.T) {
	my := newTable(MySQL, store.Holdings)
	pg := newTable(Postgres, store.Holdings)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"mysql insert", my.insert(),
			"INSERT INTO holdings (id, ix_name, ix_symbol, ix_category, body) VALUES (?, ?, ?, ?, ?)"},
		{"postgres insert", pg.insert(),
			"INSERT INTO holdings (id, ix_name, ix_symbol, ix_category, body) VALUES ($1, $2, $3, $4, $5)"},
		{"mysql upsert", my.upsert(),
			"INSERT INTO holdings (id, ix_name, ix_symbol, ix_category, body) VALUES (?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE ix_name = VALUES(ix_name), ix_symbol = VALUES(ix_symbol), ix_category = VALUES(ix_category), body = VALUES(body)"},
		{"postgres upsert", pg.upsert(),
			"INSERT INTO holdings (id, ix_name, ix_symbol, ix_category, body) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO UPDATE SET ix_name = EXCLUDED.ix_name, ix_symbol = EXCLUDED.ix_symbol, ix_category = EXCLUDED.ix_category, body = EXCLUDED.body"},
		{"postgres update", pg.update(),
			"UPDATE holdings SET ix_name = $1, ix_symbol = $2, ix_category = $3, body = $4 WHERE id = $5"},
		{"mysql select for update", my.selectBody(true),
			"SELECT body FROM holdings WHERE id = ? FOR UPDATE"},
		{"postgres delete", pg.delete(),
			"DELETE FROM holdings WHERE id = $1"},
		{"scan by key", pg.scan("id", store.Query{}),
			"SELECT body FROM holdings ORDER BY id ASC"},
		{"scan page", pg.scan("ix_name", store.Query{Reverse: true, Offset: 20, Limit: 20}),
			"SELECT body FROM holdings ORDER BY ix_name DESC, id DESC LIMIT 20 OFFSET 20"},
		{"postgres offset only", pg.scan("ix_name", store.Query{Offset: 5}),
			"SELECT body FROM holdings ORDER BY ix_name ASC, id ASC OFFSET 5"},
		{"mysql offset only", my.scan("ix_name", store.Query{Offset: 5}),
			"SELECT body FROM holdings ORDER BY ix_name ASC, id ASC LIMIT 18446744073709551615 OFFSET 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", tt.got, tt.want)
			}
		})
	}
}

func TestTable_Create(t *testing.T) {
	my := newTable(MySQL, store.Transactions).create()
	want := []string{"CREATE TABLE IF NOT EXISTS transactions (id VARCHAR(768) PRIMARY KEY" +
		", ix_kind TEXT NOT NULL, ix_amount NUMERIC(38,12) NOT NULL, ix_date BIGINT NOT NULL, ix_category TEXT NOT NULL" +
		", body LONGTEXT NOT NULL" +
		", INDEX idx_transactions_ix_kind (ix_kind(191)), INDEX idx_transactions_ix_amount (ix_amount), INDEX idx_transactions_ix_date (ix_date), INDEX idx_transactions_ix_category (ix_category(191)))"}
	if !slices.Equal(my, want) {
		t.Errorf("mysql create = %q, want %q", my, want)
	}

	pg := newTable(Postgres, store.Transactions).create()
	if len(pg) != 5 || pg[4] != "CREATE INDEX IF NOT EXISTS idx_transactions_ix_category ON transactions(ix_category)" {
		t.Errorf("postgres create = %q", pg)
	}
	wantPg := "CREATE TABLE IF NOT EXISTS transactions (id TEXT PRIMARY KEY" +
		", ix_kind TEXT NOT NULL, ix_amount NUMERIC(38,12) NOT NULL, ix_date BIGINT NOT NULL, ix_category TEXT NOT NULL" +
		", body TEXT NOT NULL)"
	if len(pg) == 0 || pg[0] != wantPg {
		t.Errorf("postgres create table = %q, want %q", pg, wantPg)
	}
}

func TestTable_CheckKey(t *testing.T) {
	long := strings.Repeat("é", maxKeyLength+1)
	tests := []struct {
		name    string
		dialect Dialect
		id      string
		wantErr bool
	}{
		{"mysql short", MySQL, "id01", false},
		{"mysql at limit", MySQL, strings.Repeat("x", maxKeyLength), false},
		{"mysql too long", MySQL, long, true},
		{"postgres long", Postgres, long, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTable(tt.dialect, store.Holdings).checkKey(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkKey() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
