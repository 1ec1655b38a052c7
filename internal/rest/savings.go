package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/core"
)

type goalDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      string          `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (d goalDTO) toCore() core.SavingsGoal {
	return core.SavingsGoal{
		ID:            d.ID,
		Name:          d.Name,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		Deadline:      parseWireDate(d.Deadline),
		CreatedAt:     d.CreatedAt,
	}
}

// ListGoals implements api.SavingsStore.
func (c *Client) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	var dtos []goalDTO
	if err := c.do(ctx, http.MethodGet, "/savings", nil, &dtos); err != nil {
		return nil, err
	}
	goals := make([]core.SavingsGoal, len(dtos))
	for i, d := range dtos {
		goals[i] = d.toCore()
	}
	return goals, nil
}

func goalBody(in core.GoalInput) map[string]any {
	body := map[string]any{
		"name":          in.Name,
		"target_amount": in.TargetAmount,
	}
	if !in.Deadline.IsZero() {
		body["deadline"] = in.Deadline.String()
	}
	return body
}

// CreateGoal implements api.SavingsStore.
func (c *Client) CreateGoal(ctx context.Context, in core.GoalInput) (core.SavingsGoal, error) {
	var dto goalDTO
	if err := c.do(ctx, http.MethodPost, "/savings", goalBody(in), &dto); err != nil {
		return core.SavingsGoal{}, err
	}
	return dto.toCore(), nil
}

// GetGoal implements api.SavingsStore.
func (c *Client) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	var dto goalDTO
	if err := c.do(ctx, http.MethodGet, "/savings/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.SavingsGoal{}, err
	}
	return dto.toCore(), nil
}

// UpdateGoal implements api.SavingsStore.
func (c *Client) UpdateGoal(ctx context.Context, id string, in core.GoalInput) (core.SavingsGoal, error) {
	var dto goalDTO
	if err := c.do(ctx, http.MethodPut, "/savings/"+url.PathEscape(id), goalBody(in), &dto); err != nil {
		return core.SavingsGoal{}, err
	}
	return dto.toCore(), nil
}

// Contribute implements api.SavingsStore.
func (c *Client) Contribute(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	body := map[string]any{"amount": amount}
	var dto goalDTO
	if err := c.do(ctx, http.MethodPost, "/savings/"+url.PathEscape(id)+"/contribute", body, &dto); err != nil {
		return core.SavingsGoal{}, err
	}
	return dto.toCore(), nil
}

// DeleteGoal implements api.SavingsStore.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/savings/"+url.PathEscape(id), nil, nil)
}
