package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/core"
)

type accountDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsPrimary bool            `json:"is_primary"`
	CreatedAt time.Time       `json:"created_at"`
}

func (d accountDTO) toCore() core.Account {
	return core.Account{
		ID:        d.ID,
		Name:      d.Name,
		Type:      d.Type,
		Balance:   d.Balance,
		Currency:  d.Currency,
		IsPrimary: d.IsPrimary,
		CreatedAt: d.CreatedAt,
	}
}

func accountBody(in core.AccountInput) map[string]any {
	return map[string]any{
		"name":       in.Name,
		"type":       in.Type,
		"currency":   in.Currency,
		"is_primary": in.IsPrimary,
	}
}

// ListAccounts implements api.AccountStore.
func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	var dtos []accountDTO
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &dtos); err != nil {
		return nil, err
	}
	accounts := make([]core.Account, len(dtos))
	for i, d := range dtos {
		accounts[i] = d.toCore()
	}
	return accounts, nil
}

// CreateAccount implements api.AccountStore.
func (c *Client) CreateAccount(ctx context.Context, in core.AccountInput) (core.Account, error) {
	var dto accountDTO
	if err := c.do(ctx, http.MethodPost, "/accounts", accountBody(in), &dto); err != nil {
		return core.Account{}, err
	}
	return dto.toCore(), nil
}

// GetAccount implements api.AccountStore.
func (c *Client) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var dto accountDTO
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.Account{}, err
	}
	return dto.toCore(), nil
}

// UpdateAccount implements api.AccountStore.
func (c *Client) UpdateAccount(ctx context.Context, id string, in core.AccountInput) (core.Account, error) {
	var dto accountDTO
	if err := c.do(ctx, http.MethodPut, "/accounts/"+url.PathEscape(id), accountBody(in), &dto); err != nil {
		return core.Account{}, err
	}
	return dto.toCore(), nil
}

// DeleteAccount implements api.AccountStore.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(id), nil, nil)
}
