package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all transactions as JSON or CSV" }
func (*exportCmd) Usage() string {
	return `fin export [-format json|csv] [-o <file>]

  Writes every transaction to a backup file. Use -o - to write to stdout.
  The default file name is finance-export-<timestamp>.<format>.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(finance.JSON), "Export format (json, csv).")
	f.StringVar(&c.output, "o", "", "Output file.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := finance.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		if c.output == "-" {
			if err := b.Export(ctx, os.Stdout, format); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
				return subcommands.ExitFailure
			}
			return subcommands.ExitSuccess
		}

		filename := c.output
		if filename == "" {
			filename = finance.ExportFilename(format, time.Now())
		}
		out, err := os.Create(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		if err := b.Export(ctx, out, format); err != nil {
			out.Close()
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Exported to %s\n", filename)
		return subcommands.ExitSuccess
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSON or CSV backup" }
func (*importCmd) Usage() string {
	return `fin import <file>

  Reads a JSON or CSV backup and adds or replaces its transactions. Nothing is
  imported if any record is invalid.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		n, err := b.Import(ctx, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Imported %d transactions\n", n)
		return subcommands.ExitSuccess
	})
}
