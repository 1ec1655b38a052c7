package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/api"
	"dirav/internal/core"
)

type budgetDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	Category  string          `json:"category,omitempty"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date,omitempty"`
	IsActive  bool            `json:"is_active"`
}

func (d budgetDTO) toCore() core.Budget {
	return core.Budget{
		ID:        d.ID,
		Name:      d.Name,
		Amount:    d.Amount,
		Period:    core.BudgetPeriod(d.Period),
		Category:  d.Category,
		StartDate: parseWireDate(d.StartDate),
		EndDate:   parseWireDate(d.EndDate),
		IsActive:  d.IsActive,
	}
}

func budgetBody(in core.BudgetInput) map[string]any {
	body := map[string]any{
		"name":       in.Name,
		"amount":     in.Amount,
		"period":     string(in.Period),
		"category":   in.Category,
		"start_date": in.StartDate.String(),
		"is_active":  in.IsActive,
	}
	if !in.EndDate.IsZero() {
		body["end_date"] = in.EndDate.String()
	}
	return body
}

// ListBudgets implements api.BudgetStore.
func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var dtos []budgetDTO
	if err := c.do(ctx, http.MethodGet, "/budgets", nil, &dtos); err != nil {
		return nil, err
	}
	budgets := make([]core.Budget, len(dtos))
	for i, d := range dtos {
		budgets[i] = d.toCore()
	}
	return budgets, nil
}

// CreateBudget implements api.BudgetStore.
func (c *Client) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	var dto budgetDTO
	if err := c.do(ctx, http.MethodPost, "/budgets", budgetBody(in), &dto); err != nil {
		return core.Budget{}, err
	}
	return dto.toCore(), nil
}

// GetBudget implements api.BudgetStore.
func (c *Client) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	var dto budgetDTO
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.Budget{}, err
	}
	return dto.toCore(), nil
}

// UpdateBudget implements api.BudgetStore.
func (c *Client) UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	var dto budgetDTO
	if err := c.do(ctx, http.MethodPut, "/budgets/"+url.PathEscape(id), budgetBody(in), &dto); err != nil {
		return core.Budget{}, err
	}
	return dto.toCore(), nil
}

// DeleteBudget implements api.BudgetStore.
func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/budgets/"+url.PathEscape(id), nil, nil)
}

// BudgetProgress implements api.BudgetStore.
func (c *Client) BudgetProgress(ctx context.Context, id string) (api.BudgetProgress, error) {
	var dto struct {
		BudgetID  string          `json:"budget_id"`
		Spent     decimal.Decimal `json:"spent"`
		Remaining decimal.Decimal `json:"remaining"`
		AsOf      time.Time       `json:"as_of"`
	}
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(id)+"/progress", nil, &dto); err != nil {
		return api.BudgetProgress{}, err
	}
	return api.BudgetProgress{
		BudgetID:  dto.BudgetID,
		Spent:     dto.Spent,
		Remaining: dto.Remaining,
		AsOf:      dto.AsOf,
	}, nil
}
