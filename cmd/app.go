// Package cmd implements the CLI application to manage personal finances.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/finance/book"
	"github.com/etnz/finance/store/jsonl"
	"github.com/etnz/finance/store/sqlstore"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

type entry struct {
	cmd   subcommands.Command
	group string
}

var commands = []entry{
	{&addCmd{}, "transactions"},
	{&withdrawCmd{}, "transactions"},
	{&txCmd{}, "transactions"},
	{&rmCmd{}, "transactions"},

	{&summaryCmd{}, "reports"},
	{&reportCmd{}, "reports"},

	{&holdingAddCmd{}, "holdings"},
	{&holdingsCmd{}, "holdings"},
	{&priceCmd{}, "holdings"},
	{&sellCmd{}, "holdings"},
	{&holdingRmCmd{}, "holdings"},

	{&exportCmd{}, "backup"},
	{&importCmd{}, "backup"},
}

// LoadEnv reads the .env file of the working directory, if any.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env: %w", err)
	}
	return nil
}

// OpenBook opens the book configured by flags and environment.
// The returned function releases the underlying store.
func OpenBook(ctx context.Context) (*book.Book, func() error, error) {
	cfg := LoadConfig()
	log := NewLogger(cfg)

	if cfg.DSN != "" {
		db, err := sqlstore.Open(ctx, cfg.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return book.New(db.Transactions, db.Holdings, log), db.Close, nil
	}

	db, err := jsonl.Open(cfg.DataDir, log)
	if err != nil {
		return nil, nil, err
	}
	return book.New(db.Transactions, db.Holdings, log), func() error { return nil }, nil
}

// withBook opens the book, runs f and closes the book, reporting errors on stderr.
func withBook(ctx context.Context, f func(b *book.Book) subcommands.ExitStatus) subcommands.ExitStatus {
	b, closeBook, err := OpenBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeBook()
	return f(b)
}
