// Package api serves a finance session as a local JSON API.
//
// Every route works on the user logged in the session, and answers 401 when
// nobody is. Amounts are accepted as JSON numbers or strings, and returned as
// numbers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/gin-gonic/gin"
)

// server holds the session. A Session is not safe for concurrent use: every
// request holds mu.
type server struct {
	mu      sync.Mutex
	session *finance.Session
	today   func() date.Date
}

// NewHandler returns the API handler on s.
func NewHandler(s *finance.Session) http.Handler {
	return newServer(s, date.Today).routes()
}

func newServer(s *finance.Session, today func() date.Date) *server {
	return &server{session: s, today: today}
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.lock, s.requireUser)

	g := r.Group("/api")
	g.GET("/me", s.me)
	g.GET("/balance", s.balance)
	g.GET("/transactions", s.transactions)
	g.POST("/transactions", s.recordTransaction)
	g.GET("/goals", s.goals)
	g.POST("/goals", s.createGoal)
	g.POST("/goals/:id/contributions", s.contribute)
	return r
}

func (s *server) lock(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Next()
}

func (s *server) requireUser(c *gin.Context) {
	if _, ok := s.session.CurrentUser(); !ok {
		fail(c, finance.ErrNotLoggedIn)
		return
	}
	c.Next()
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, finance.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, finance.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, finance.ErrInvalidAmount), errors.Is(err, finance.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, finance.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *server) me(c *gin.Context) {
	u, _ := s.session.CurrentUser()
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

// inPeriod returns the predicates selecting the period query parameter, if any.
func (s *server) inPeriod(c *gin.Context) ([]func(finance.Transaction) bool, string, error) {
	p := c.Query("period")
	if p == "" {
		return nil, "", nil
	}
	period, err := date.ParsePeriod(p)
	if err != nil {
		return nil, "", err
	}
	r := date.NewRange(s.today(), period)
	return []func(finance.Transaction) bool{finance.InRange(r)}, r.Identifier(), nil
}

type balanceResponse struct {
	Period   string         `json:"period,omitempty"`
	Income   finance.Amount `json:"income"`
	Expenses finance.Amount `json:"expenses"`
	Balance  finance.Amount `json:"balance"`
}

func (s *server) balance(c *gin.Context) {
	preds, period, err := s.inPeriod(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	agg := s.session.Aggregates(preds...)
	c.JSON(http.StatusOK, balanceResponse{
		Period:   period,
		Income:   agg.Income,
		Expenses: agg.Expenses,
		Balance:  agg.Balance,
	})
}

func (s *server) transactions(c *gin.Context) {
	filter, err := finance.ParseFilter(c.Query("filter"))
	if err != nil {
		badRequest(c, err)
		return
	}
	preds, _, err := s.inPeriod(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if where := c.Query("where"); where != "" {
		q, err := finance.CompileQuery(where)
		if err != nil {
			badRequest(c, err)
			return
		}
		preds = append(preds, q.Match)
	}
	txs := slices.Collect(s.session.Transactions(filter, preds...))
	if txs == nil {
		txs = []finance.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

type transactionRequest struct {
	Type        string      `json:"type" binding:"required"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount" binding:"required"`
	Category    string      `json:"category"`
}

func (s *server) recordTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	typ, err := finance.ParseType(req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	amount, err := finance.ParseAmount(req.Amount.String())
	if err != nil {
		fail(c, err)
		return
	}
	tx, err := s.session.RecordTransaction(c.Request.Context(), typ, req.Description, amount, req.Category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

type goalResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Amount    finance.Amount `json:"amount"`
	Saved     finance.Amount `json:"saved"`
	Remaining finance.Amount `json:"remaining"`
	Progress  float64        `json:"progress"` // percent
}

func newGoalResponse(g finance.Goal) goalResponse {
	return goalResponse{
		ID:        g.ID,
		Name:      g.Name,
		Amount:    g.Amount,
		Saved:     g.Saved,
		Remaining: g.Remaining(),
		Progress:  g.Progress().InexactFloat64(),
	}
}

func (s *server) goals(c *gin.Context) {
	resp := make([]goalResponse, 0)
	for g := range s.session.Goals() {
		resp = append(resp, newGoalResponse(g))
	}
	c.JSON(http.StatusOK, resp)
}

type goalRequest struct {
	Name   string      `json:"name" binding:"required"`
	Amount json.Number `json:"amount" binding:"required"`
}

func (s *server) createGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := finance.ParsePositiveAmount(req.Amount.String())
	if err != nil {
		fail(c, err)
		return
	}
	g, err := s.session.CreateGoal(c.Request.Context(), req.Name, amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGoalResponse(g))
}

type contributionRequest struct {
	Amount json.Number `json:"amount" binding:"required"`
}

func (s *server) contribute(c *gin.Context) {
	var req contributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := finance.ParsePositiveAmount(req.Amount.String())
	if err != nil {
		fail(c, err)
		return
	}
	g, err := s.session.Contribute(c.Request.Context(), c.Param("id"), amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newGoalResponse(g))
}
