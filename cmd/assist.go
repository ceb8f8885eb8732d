package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/finance"
	"github.com/etnz/finance/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an assistant about your finances" }
func (*assistCmd) Usage() string {
	return `fin assist [<prompt>...]

  Starts a chat with an assistant that can read your ledger. Prompts given as
  arguments are sent first. Needs a Gemini API key in $GEMINI_API_KEY.
`
}
func (*assistCmd) SetFlags(f *flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		if _, ok := s.CurrentUser(); !ok {
			return fail(finance.ErrNotLoggedIn)
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
		if err != nil {
			return fail(err)
		}
		a := agent.New(os.Stdout, os.Stdin,
			agent.NewAccountant(s, currency(), today),
			agent.NewAdvisor(),
		)
		if err := a.Run(ctx, client, f.Args()...); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	})
}
