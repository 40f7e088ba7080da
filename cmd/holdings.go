package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type holdingAddCmd struct {
	name     string
	symbol   string
	category string
	quantity string
	cost     string
	currency string
}

func (*holdingAddCmd) Name() string     { return "holding-add" }
func (*holdingAddCmd) Synopsis() string { return "buy a new holding" }
func (*holdingAddCmd) Usage() string {
	return `fin holding-add -name <name> -qty <quantity> -cost <avg cost> [-symbol <symbol>] [-c <category>] [-cur <currency>]

  Adds a holding to the portfolio and records its purchase as an asset transaction.
`
}

func (c *holdingAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the holding.")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol, if any.")
	f.StringVar(&c.category, "c", finance.DefaultHoldingCategory, "Category of the holding ("+strings.Join(finance.HoldingCategories, ", ")+").")
	f.StringVar(&c.quantity, "qty", "", "Quantity bought.")
	f.StringVar(&c.cost, "cost", "", "Average unit cost.")
	f.StringVar(&c.currency, "cur", finance.DefaultCurrency, "Currency code of the cost.")
}

func (c *holdingAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	qty, err := decimal.NewFromString(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", c.quantity, err)
		return subcommands.ExitUsageError
	}
	cost, err := decimal.NewFromString(c.cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cost %q: %v\n", c.cost, err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		h, tx, err := b.OpenHolding(ctx, finance.Holding{
			Name:     c.name,
			Symbol:   c.symbol,
			Category: c.category,
			Quantity: qty,
			AvgCost:  cost,
			Currency: c.currency,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding holding: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Bought %s %s for %s (%s)\n", h.Quantity, h.Label(), finance.FormatMoney(tx.Amount, tx.Currency), h.ID)
		return subcommands.ExitSuccess
	})
}

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the portfolio with values and profit/loss" }
func (*holdingsCmd) Usage() string {
	return `fin holdings

  Displays every holding with its value and profit or loss.
`
}

func (*holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		hs, err := b.Holdings(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.HoldingsMarkdown(hs))
		return subcommands.ExitSuccess
	})
}

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "set the current price of a holding" }
func (*priceCmd) Usage() string {
	return `fin price <holding id> <price>

  Marks a holding at a new unit price. The price must be positive.
`
}

func (*priceCmd) SetFlags(f *flag.FlagSet) {}

func (*priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a holding id and a price")
		return subcommands.ExitUsageError
	}
	price, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		h, err := b.SetPrice(ctx, f.Arg(0), price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error setting price: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s is now worth %s\n", h.Label(), finance.FormatMoney(h.Value(), h.Currency))
		return subcommands.ExitSuccess
	})
}

type sellCmd struct {
	at string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell units of a holding" }
func (*sellCmd) Usage() string {
	return `fin sell [-at current|cost] <holding id> <quantity>

  Sells units of a holding at its current price or its average cost, and records
  the proceeds as income. Selling the whole quantity removes the holding.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "at", "current", "Price used for the sale (current, cost).")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a holding id and a quantity")
		return subcommands.ExitUsageError
	}
	qty, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}
	basis, err := finance.ParsePriceBasis(c.at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		sale, err := b.Sell(ctx, f.Arg(0), qty, basis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error selling: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(sale.Proceeds.Note, "=", finance.FormatMoney(sale.Proceeds.Amount, sale.Proceeds.Currency))
		return subcommands.ExitSuccess
	})
}

type holdingRmCmd struct{}

func (*holdingRmCmd) Name() string     { return "holding-rm" }
func (*holdingRmCmd) Synopsis() string { return "remove holdings without recording a sale" }
func (*holdingRmCmd) Usage() string {
	return `fin holding-rm <holding id>...

  Removes holdings from the portfolio. No transaction is recorded.
`
}

func (*holdingRmCmd) SetFlags(f *flag.FlagSet) {}

func (*holdingRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one holding id")
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		for _, id := range f.Args() {
			if err := b.RemoveHolding(ctx, id); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing %q: %v\n", id, err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	})
}
