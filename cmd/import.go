package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

type importCmd struct {
	mapping finance.ImportMapping
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSON document" }
func (*importCmd) Usage() string {
	return `fin import [-records <path>] [-amount <path>] [-type <path>] [-description <path>] [-category <path>] [-date <path>] <file.json | ->

  Records the transactions found in a JSON document, with JSONPath expressions
  telling where to find them. Without -type, negative amounts are expenses and
  the others income. Either all transactions are recorded, or none.
  See "fin topic import".
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping.Records, "records", "$[*]", "Path of the records in the document.")
	f.StringVar(&c.mapping.Amount, "amount", "$.amount", "Path of the amount in a record.")
	f.StringVar(&c.mapping.Type, "type", "", "Path of the type (income or expense) in a record.")
	f.StringVar(&c.mapping.Description, "description", "$.description", "Path of the description in a record.")
	f.StringVar(&c.mapping.Category, "category", "", "Path of the category in a record.")
	f.StringVar(&c.mapping.Date, "date", "", "Path of the date in a record.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("import needs exactly one file, or - for the standard input")
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		r = file
	}

	records, err := finance.DecodeImport(r, c.mapping)
	if err != nil {
		return fail(err)
	}
	return withSession(ctx, func(s *finance.Session) subcommands.ExitStatus {
		n, err := s.Import(ctx, records)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Imported %d transactions\n", n)
		return subcommands.ExitSuccess
	})
}
