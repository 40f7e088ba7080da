package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finance/book"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	period string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals and net worth of the current period" }
func (*summaryCmd) Usage() string {
	return `fin summary [-p <period>]

  Displays income, expenses, savings, balance and net worth for the current
  day, week, month, quarter, year or all time.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Period of the summary (day, week, month, quarter, year, all).")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		o, err := b.Overview(ctx, period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating summary: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.OverviewMarkdown(o))
		return subcommands.ExitSuccess
	})
}

type reportCmd struct {
	period string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "break down the current period by category and by day" }
func (*reportCmd) Usage() string {
	return `fin report [-p <period>]

  Displays the expenses and income of the current period by category, and the
  daily trend of income, expenses and savings.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Period of the report (day, week, month, quarter, year, all).")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withBook(ctx, func(b *book.Book) subcommands.ExitStatus {
		r, err := b.Report(ctx, period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating report: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.ReportMarkdown(r))
		return subcommands.ExitSuccess
	})
}
