package renderer

import "github.com/etnz/finance"

// GoalList is the list of goals of a user, in creation order.
type GoalList struct {
	Currency string
	Goals    []finance.Goal
}

// RenderGoals renders the goals with their progress. The first column is the
// index accepted by "fin contribute -i".
func RenderGoals(l *GoalList) string {
	return renderTemplate("goals", "goals.md", nil, l.Currency, l)
}
