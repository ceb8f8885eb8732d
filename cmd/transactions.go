package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

// recordCmd records an income or an expense, depending on typ.
type recordCmd struct {
	typ         finance.TxType
	description string
	amount      string
	category    string
}

func (c *recordCmd) Name() string     { return string(c.typ) }
func (c *recordCmd) Synopsis() string { return "record an " + string(c.typ) }
func (c *recordCmd) Usage() string {
	return fmt.Sprintf(`fin %s -a <amount> [-d <description>] [-c <category>]

  Records an %s of the current user, dated now. The amount is positive.
`, c.typ, c.typ)
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "d", "", "Description of the transaction.")
	f.StringVar(&c.amount, "a", "", "Amount of the transaction, a positive number.")
	f.StringVar(&c.category, "c", "", "Category of the transaction.")
}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		return usage("-a is required")
	}
	amount, err := finance.ParseAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		tx, err := s.RecordTransaction(ctx, c.typ, c.description, amount, c.category)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Recorded %s %q of %s\n", tx.Type, tx.Description, tx.Amount.Format(currency()))
		return subcommands.ExitSuccess
	})
}

type txCmd struct {
	filter string
	period string
	where  string
	head   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the current user" }
func (*txCmd) Usage() string {
	return `fin tx [-f all|income|expense] [-p <period>] [-where <expr>] [-head <n>]

  Lists transactions, most recent first. See "fin topic query" for -where.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "f", "all", "Type of transactions: all, income or expense.")
	f.StringVar(&c.period, "p", "", "Only the current period: day, week, month, quarter or year.")
	f.StringVar(&c.where, "where", "", "Only transactions matching this expression.")
	f.IntVar(&c.head, "head", 0, "Show only the N most recent transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := finance.ParseFilter(c.filter)
	if err != nil {
		return usage("%v", err)
	}
	preds, _, err := periodPredicates(c.period)
	if err != nil {
		return usage("%v", err)
	}
	if c.where != "" {
		q, err := finance.CompileQuery(c.where)
		if err != nil {
			return fail(err)
		}
		preds = append(preds, q.Match)
	}

	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if _, ok := s.CurrentUser(); !ok {
			return fail(finance.ErrNotLoggedIn)
		}
		txs := slices.Collect(s.Transactions(filter, preds...))
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		printMarkdown(renderer.RenderTransactions(&renderer.TransactionList{
			Title:        listTitle(filter),
			Currency:     currency(),
			Transactions: txs,
		}))
		return subcommands.ExitSuccess
	})
}

func listTitle(f finance.Filter) string {
	switch f {
	case finance.IncomeOnly:
		return "Income"
	case finance.ExpensesOnly:
		return "Expenses"
	default:
		return "Transactions"
	}
}

// periodPredicates returns the predicates selecting the current period p, and
// the identifier of that period. An empty p selects everything.
func periodPredicates(p string) ([]func(finance.Transaction) bool, string, error) {
	if p == "" {
		return nil, "", nil
	}
	period, err := date.ParsePeriod(p)
	if err != nil {
		return nil, "", err
	}
	r := date.NewRange(today(), period)
	return []func(finance.Transaction) bool{finance.InRange(r)}, r.Identifier(), nil
}

type balanceCmd struct {
	period string
	recent int
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print income, expenses and balance" }
func (*balanceCmd) Usage() string {
	return `fin balance [-p <period>] [-recent <n>]

  Prints the total income, total expenses and balance of the current user.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Only the current period: day, week, month, quarter or year.")
	f.IntVar(&c.recent, "recent", 0, "Also list the N most recent transactions of the period.")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	preds, id, err := periodPredicates(c.period)
	if err != nil {
		return usage("%v", err)
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if _, ok := s.CurrentUser(); !ok {
			return fail(finance.ErrNotLoggedIn)
		}
		summary := &renderer.Summary{
			Period:     id,
			Currency:   currency(),
			Aggregates: s.Aggregates(preds...),
		}
		if c.recent > 0 {
			for tx := range s.Transactions(finance.All, preds...) {
				if len(summary.Recent) == c.recent {
					break
				}
				summary.Recent = append(summary.Recent, tx)
			}
		}
		printMarkdown(renderer.RenderSummary(summary))
		return subcommands.ExitSuccess
	})
}
