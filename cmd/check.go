package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check the consistency of the stored snapshot" }
func (*checkCmd) Usage() string {
	return `fin check

  Reports the inconsistencies of the stored snapshot: unknown users, duplicate
  emails or ids, invalid amounts.
`
}
func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if err := s.Snapshot().Check(); err != nil {
			return fail(err)
		}
		fmt.Println("Snapshot is consistent")
		return subcommands.ExitSuccess
	})
}
