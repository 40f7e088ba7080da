package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseDate parses a local date, with an optional time of day. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// parseAmount parses the single positional argument of a command as a decimal.
func parseAmount(f *flag.FlagSet, name string) (decimal.Decimal, error) {
	if f.NArg() != 1 {
		return decimal.Zero, fmt.Errorf("expected exactly one %s argument, got %d", name, f.NArg())
	}
	d, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, f.Arg(0), err)
	}
	return d, nil
}

type addCmd struct {
	kind     string
	category string
	note     string
	currency string
	date     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income, expense, saving or asset transaction" }
func (*addCmd) Usage() string {
	return `fin add [-k <kind>] [-c <category>] [-n <note>] [-cur <currency>] [-d <date>] <amount>

  Records a new transaction. The amount must not be negative.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(finance.Expense), "Kind of transaction (income, expense, saving, asset).")
	f.StringVar(&c.category, "c", finance.DefaultCategory, "Category of the transaction.")
	f.StringVar(&c.note, "n", "", "Free text note.")
	f.StringVar(&c.currency, "cur", finance.DefaultCurrency, "Currency code of the amount.")
	f.StringVar(&c.date, "d", "", "Date of the transaction, YYYY-MM-DD [HH:MM] (defaults to now).")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(f, "amount")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	kind, err := finance.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		tx, err := b.Record(ctx, book.Entry{
			Kind:     kind,
			Amount:   amount,
			Currency: c.currency,
			Category: c.category,
			Note:     c.note,
			Date:     on,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording transaction: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Recorded %s of %s in %q (%s)\n", tx.Kind, finance.FormatMoney(tx.Amount, tx.Currency), tx.Category, tx.ID)
		return subcommands.ExitSuccess
	})
}

type withdrawCmd struct {
	currency string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "move money from savings back to cash" }
func (*withdrawCmd) Usage() string {
	return `fin withdraw [-cur <currency>] <amount>

  Withdraws an amount from savings. The amount must be positive and cannot exceed
  the savings total.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "cur", finance.DefaultCurrency, "Currency code of the amount.")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(f, "amount")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		if _, err := b.Withdraw(ctx, amount, c.currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Withdrew %s from savings\n", finance.FormatMoney(amount, c.currency))
		return subcommands.ExitSuccess
	})
}

type txCmd struct {
	page int
	size int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions, newest first" }
func (*txCmd) Usage() string {
	return `fin tx [-p <page>] [-n <size>]

  Lists the transactions one page at a time, newest first.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "p", 1, "Page number, starting at 1.")
	f.IntVar(&c.size, "n", book.DefaultPageSize, "Number of transactions per page.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		page, err := b.Page(ctx, c.page-1, c.size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.TransactionsMarkdown(page))
		return subcommands.ExitSuccess
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `fin rm <id>...

  Deletes the transactions with the given ids. Unknown ids are ignored.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one transaction id")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		for _, id := range f.Args() {
			if err := b.DeleteTransaction(ctx, id); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", id, err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	})
}
