package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	periods = predict.Set{"day", "week", "month", "quarter", "year"}
	filters = predict.Set{"all", "income", "expense"}
)

// Completion describes the fin command line for shell completion.
func Completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"store":           predict.Set{"file", "postgres"},
			"profile":         predict.Dirs("*"),
			"dsn":             predict.Something,
			"key":             predict.Something,
			"credentials":     predict.Set{"plain", "bcrypt"},
			"currency":        predict.Set{"USD", "EUR", "GBP", "JPY", "CHF", "CAD"},
			"recover-corrupt": predict.Nothing,
			"plain":           predict.Nothing,
			"v":               predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"register": {Flags: map[string]complete.Predictor{"name": predict.Something, "email": predict.Something, "password": predict.Something}},
			"login":    {Flags: map[string]complete.Predictor{"email": predict.Something, "password": predict.Something}},
			"logout":   {},
			"whoami":   {},
			"income":   {Flags: transactionFlags()},
			"expense":  {Flags: transactionFlags()},
			"tx": {Flags: map[string]complete.Predictor{
				"f":     filters,
				"p":     periods,
				"where": predict.Something,
				"head":  predict.Something,
			}},
			"balance":    {Flags: map[string]complete.Predictor{"p": periods, "recent": predict.Something}},
			"goal":       {Flags: map[string]complete.Predictor{"name": predict.Something, "a": predict.Something}},
			"goals":      {},
			"contribute": {Flags: map[string]complete.Predictor{"id": predict.Something, "i": predict.Something, "a": predict.Something}},
			"import": {
				Flags: map[string]complete.Predictor{
					"records":     predict.Something,
					"amount":      predict.Something,
					"type":        predict.Something,
					"description": predict.Something,
					"category":    predict.Something,
					"date":        predict.Something,
				},
				Args: predict.Files("*.json"),
			},
			"check": {},
			"topic": {Args: predict.Set(topics())},
			"serve": {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"assist": {},
		},
	}
}

func transactionFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"a": predict.Something, "d": predict.Something, "c": predict.Something}
}
