package agent

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/docs"
	"github.com/etnz/finance/renderer"
	"google.golang.org/genai"
)

// Model is the Gemini model used by every expert.
const Model = "gemini-2.5-pro"

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			The user comes to understand where their money goes and how their savings goals progress.
			Devise a plan of questions to each expert and come up with the best response to the request.
			Never invent figures: ask the Accountant.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns an expert in personal budgeting grounded on Google Search.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is a personal finance advisor.
		Ask the Advisor for budgeting rules of thumb, saving strategies or any general knowledge about
		household finance. The Advisor does not know the user's figures.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in household budgeting and saving. You leverage Google Search to
			ground your assertions. Keep your answers short and practical.
			`}}},
		},
	}
}

// Books is the read-only view of the user's ledger the accountant works on.
type Books interface {
	Transactions(filter finance.Filter, preds ...func(finance.Transaction) bool) iter.Seq[finance.Transaction]
	Aggregates(preds ...func(finance.Transaction) bool) finance.Aggregates
	Goals() iter.Seq[finance.Goal]
}

// NewAccountant returns the expert reading the user's books. Amounts are
// formatted in currency, and periods are relative to today.
func NewAccountant(books Books, currency string, today func() date.Date) *Expert {
	lib := AccountantTools(books, currency, today)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant, in charge of the user's ledger.
		Ask the Accountant about income, expenses, balance, transactions and savings goals.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an accountant in charge of the user's ledger.
			Use the Tools to get the balance, the list of transactions and the savings goals.
			Other experts may ask you questions in approximate language, figure out what they meant.
			Contributions to goals are recorded as expenses in the "savings" category.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

var periodSchema = &genai.Schema{
	Type: genai.TypeString,
	Description: `Restricts the computation to the current period. All time is the default.

	` + must(docs.GetTopic("periods")),
}

// AccountantTools returns the read-only functions over books.
func AccountantTools(books Books, currency string, today func() date.Date) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Balance",
				Description: "Balance computes the total income, total expenses and the balance of the user, for all time or for the current period.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"period": periodSchema},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of income, expenses and balance."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				preds, id, err := inPeriod(args, today)
				if err != nil {
					return "", err
				}
				return renderer.RenderSummary(&renderer.Summary{
					Period:     id,
					Currency:   currency,
					Aggregates: books.Aggregates(preds...),
				}), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Transactions lists the user's transactions, most recent first.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"filter": {
							Type:        genai.TypeString,
							Description: `Keeps only "income" or "expense" transactions. "all" is the default.`,
						},
						"period": periodSchema,
						"where": {
							Type: genai.TypeString,
							Description: `A boolean expression selecting transactions.

							` + must(docs.GetTopic("query")),
						},
					},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of transactions."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				f, err := stringArg(args, "filter", false)
				if err != nil {
					return "", err
				}
				filter, err := finance.ParseFilter(f)
				if err != nil {
					return "", err
				}
				preds, _, err := inPeriod(args, today)
				if err != nil {
					return "", err
				}
				where, err := stringArg(args, "where", false)
				if err != nil {
					return "", err
				}
				if where != "" {
					q, err := finance.CompileQuery(where)
					if err != nil {
						return "", err
					}
					preds = append(preds, q.Match)
				}
				return renderer.RenderTransactions(&renderer.TransactionList{
					Title:        "Transactions",
					Currency:     currency,
					Transactions: slices.Collect(books.Transactions(filter, preds...)),
				}), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Goals",
				Description: "Goals lists the user's savings goals with their target, saved amount and progress.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table of goals."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.RenderGoals(&renderer.GoalList{
					Currency: currency,
					Goals:    slices.Collect(books.Goals()),
				}), nil
			},
		},
	}
}

// inPeriod returns the predicates selecting the "period" argument, if any,
// and the identifier of the selected range.
func inPeriod(args map[string]any, today func() date.Date) ([]func(finance.Transaction) bool, string, error) {
	p, err := stringArg(args, "period", false)
	if err != nil || p == "" {
		return nil, "", err
	}
	period, err := date.ParsePeriod(p)
	if err != nil {
		return nil, "", fmt.Errorf("invalid period: %w", err)
	}
	r := date.NewRange(today(), period)
	return []func(finance.Transaction) bool{finance.InRange(r)}, r.Identifier(), nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
