package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/etnz/finance"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

type goalCmd struct {
	name   string
	amount string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "create a savings goal" }
func (*goalCmd) Usage() string {
	return `fin goal -name <name> -a <target amount>
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the goal.")
	f.StringVar(&c.amount, "a", "", "Target amount of the goal, strictly positive.")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		return usage("-a is required")
	}
	amount, err := finance.ParsePositiveAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		g, err := s.CreateGoal(ctx, c.name, amount)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created goal %q of %s\n", g.Name, g.Amount.Format(currency()))
		return subcommands.ExitSuccess
	})
}

type goalsCmd struct{}

func (*goalsCmd) Name() string             { return "goals" }
func (*goalsCmd) Synopsis() string         { return "list the savings goals" }
func (*goalsCmd) Usage() string            { return "fin goals\n" }
func (*goalsCmd) SetFlags(f *flag.FlagSet) {}

func (*goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if _, ok := s.CurrentUser(); !ok {
			return fail(finance.ErrNotLoggedIn)
		}
		printMarkdown(renderer.RenderGoals(&renderer.GoalList{
			Currency: currency(),
			Goals:    slices.Collect(s.Goals()),
		}))
		return subcommands.ExitSuccess
	})
}

type contributeCmd struct {
	id     string
	index  int
	amount string
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "save money toward a goal" }
func (*contributeCmd) Usage() string {
	return `fin contribute (-id <goal id> | -i <index>) -a <amount>

  Adds the amount to the goal and records it as a savings expense. Goals are
  designated by their ID or by their index in "fin goals".
`
}

func (c *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "ID of the goal.")
	f.IntVar(&c.index, "i", -1, "Index of the goal, as listed by fin goals.")
	f.StringVar(&c.amount, "a", "", "Amount to save, strictly positive.")
}

func (c *contributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.id == "") == (c.index < 0) {
		return usage("exactly one of -id or -i is required")
	}
	if c.amount == "" {
		return usage("-a is required")
	}
	amount, err := finance.ParsePositiveAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		var g finance.Goal
		var err error
		if c.id != "" {
			g, err = s.Contribute(ctx, c.id, amount)
		} else {
			g, err = s.ContributeAt(ctx, c.index, amount)
		}
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Saved %s toward %q: %s of %s (%s%%)\n",
			amount.Format(currency()), g.Name, g.Saved.Format(currency()), g.Amount.Format(currency()), g.Progress().StringFixed(1))
		return subcommands.ExitSuccess
	})
}
