// Package sqlstore keeps the collections of the finance tracker in a MySQL or
// PostgreSQL database.
//
// Each collection is a table with one column per indexed field and the JSON
// encoded record in a body column.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/store"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DB is the pair of collections of the finance tracker stored in a database.
type DB struct {
	db           *sql.DB
	Transactions *Collection[finance.Transaction]
	Holdings     *Collection[finance.Holding]
}

// Open connects to the database at dsn (see ParseDSN) and creates the missing tables.
func Open(ctx context.Context, dsn string, log logrus.FieldLogger) (*DB, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.String(), source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", dialect, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect, err)
	}
	log.WithField("dialect", dialect).Debug("connected to database")

	txs, err := NewCollection(ctx, db, dialect, store.Transactions, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	holdings, err := NewCollection(ctx, db, dialect, store.Holdings, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db, Transactions: txs, Holdings: holdings}, nil
}

// Close closes the connection pool.
func (d *DB) Close() error { return d.db.Close() }

// Collection is a store.Collection backed by a table.
type Collection[T store.Record] struct {
	db     *sql.DB
	schema store.Schema[T]
	table  table
	hub    store.Hub
	log    logrus.FieldLogger
}

var _ store.Collection[finance.Transaction] = (*Collection[finance.Transaction])(nil)

// NewCollection creates the table of schema if it does not exist.
func NewCollection[T store.Record](ctx context.Context, db *sql.DB, d Dialect, schema store.Schema[T], log logrus.FieldLogger) (*Collection[T], error) {
	c := &Collection[T]{db: db, schema: schema, table: newTable(d, schema), log: log.WithField("collection", schema.Name)}
	for _, stmt := range c.table.create() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to init table %q: %w", schema.Name, err)
		}
	}
	return c, nil
}

// values returns the row of v in insertion order.
func (c *Collection[T]) values(v T) ([]any, error) {
	if err := c.table.checkKey(v.Key()); err != nil {
		return nil, err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %q: %w", c.schema.Name, v.Key(), err)
	}
	row := []any{v.Key()}
	for _, ix := range c.schema.Indexes {
		row = append(row, ix.Value(v))
	}
	return append(row, string(body)), nil
}

// inTx runs f in a transaction and notifies the returned events once committed.
func (c *Collection[T]) inTx(ctx context.Context, f func(tx *sql.Tx) ([]store.Event, error)) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	events, err := f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", c.schema.Name, err)
	}
	c.log.WithField("changes", len(events)).Debug("committed")
	c.hub.Notify(events...)
	return nil
}

func (c *Collection[T]) exists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, c.table.exists(), id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Collection[T]) event(op store.Op, id string) store.Event {
	return store.Event{Collection: c.schema.Name, Op: op, ID: id}
}

func (c *Collection[T]) Add(ctx context.Context, v T) error {
	row, err := c.values(v)
	if err != nil {
		return err
	}
	return c.inTx(ctx, func(tx *sql.Tx) ([]store.Event, error) {
		found, err := c.exists(ctx, tx, v.Key())
		if err != nil {
			return nil, err
		}
		if found {
			return nil, fmt.Errorf("%s %q: %w", c.schema.Name, v.Key(), store.ErrExists)
		}
		if _, err := tx.ExecContext(ctx, c.table.insert(), row...); err != nil {
			return nil, fmt.Errorf("failed to insert %s %q: %w", c.schema.Name, v.Key(), err)
		}
		return []store.Event{c.event(store.Created, v.Key())}, nil
	})
}

func (c *Collection[T]) Put(ctx context.Context, vs ...T) error {
	return c.inTx(ctx, func(tx *sql.Tx) ([]store.Event, error) {
		stmt, err := tx.PrepareContext(ctx, c.table.upsert())
		if err != nil {
			return nil, err
		}
		defer stmt.Close()

		events := make([]store.Event, 0, len(vs))
		for _, v := range vs {
			row, err := c.values(v)
			if err != nil {
				return nil, err
			}
			found, err := c.exists(ctx, tx, v.Key())
			if err != nil {
				return nil, err
			}
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return nil, fmt.Errorf("failed to put %s %q: %w", c.schema.Name, v.Key(), err)
			}
			op := store.Created
			if found {
				op = store.Updated
			}
			events = append(events, c.event(op, v.Key()))
		}
		return events, nil
	})
}

func (c *Collection[T]) Update(ctx context.Context, id string, f func(*T) error) error {
	return c.inTx(ctx, func(tx *sql.Tx) ([]store.Event, error) {
		var body string
		err := tx.QueryRowContext(ctx, c.table.selectBody(true), id).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", c.schema.Name, id, store.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s %q: %w", c.schema.Name, id, err)
		}
		if err := f(&v); err != nil {
			return nil, err
		}
		if v.Key() != id {
			return nil, fmt.Errorf("%s %q: update cannot change the key to %q", c.schema.Name, id, v.Key())
		}
		row, err := c.values(v)
		if err != nil {
			return nil, err
		}
		// id moves from first to last position.
		args := append(row[1:], id)
		if _, err := tx.ExecContext(ctx, c.table.update(), args...); err != nil {
			return nil, fmt.Errorf("failed to update %s %q: %w", c.schema.Name, id, err)
		}
		return []store.Event{c.event(store.Updated, id)}, nil
	})
}

func (c *Collection[T]) Delete(ctx context.Context, ids ...string) error {
	return c.inTx(ctx, func(tx *sql.Tx) ([]store.Event, error) {
		var events []store.Event
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, c.table.delete(), id)
			if err != nil {
				return nil, fmt.Errorf("failed to delete %s %q: %w", c.schema.Name, id, err)
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				events = append(events, c.event(store.Deleted, id))
			}
		}
		return events, nil
	})
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var v T
	var body string
	err := c.db.QueryRowContext(ctx, c.table.selectBody(false), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return v, false, fmt.Errorf("failed to decode %s %q: %w", c.schema.Name, id, err)
	}
	return v, true, nil
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, c.table.count()).Scan(&n)
	return n, err
}

func (c *Collection[T]) Scan(ctx context.Context, q store.Query) ([]T, error) {
	col, err := c.orderColumn(q.OrderBy)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, c.table.scan(col, q))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.schema.Name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", c.schema.Name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (c *Collection[T]) Subscribe(f func(store.Event)) (cancel func()) {
	return c.hub.Subscribe(f)
}

func (c *Collection[T]) orderColumn(field string) (string, error) {
	if field == "" || field == "id" {
		return "id", nil
	}
	ix, err := c.schema.Index(field)
	if err != nil {
		return "", err
	}
	return columnName(ix.Field), nil
}
