package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"dirav/internal/api"
	"dirav/internal/core"
)

type transactionDTO struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category,omitempty"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

func (d transactionDTO) toCore() core.Transaction {
	return core.Transaction{
		ID:        d.ID,
		Title:     d.Title,
		Amount:    d.Amount,
		Type:      core.TransactionType(d.Type),
		Category:  d.Category,
		Date:      parseWireDate(d.Date),
		CreatedAt: d.CreatedAt,
	}
}

// ListTransactions implements api.TransactionStore. The backend returns
// transactions newest first.
func (c *Client) ListTransactions(ctx context.Context, f api.TransactionFilter) ([]core.Transaction, error) {
	path := "/transactions"
	params := url.Values{}
	if f.Type != "" {
		params.Set("type", string(f.Type))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var dtos []transactionDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	transactions := make([]core.Transaction, len(dtos))
	for i, d := range dtos {
		transactions[i] = d.toCore()
	}
	return transactions, nil
}

func transactionBody(in core.TransactionInput) map[string]any {
	return map[string]any{
		"title":    in.Title,
		"amount":   in.Amount,
		"type":     string(in.Type),
		"category": in.Category,
		"date":     in.Date.String(),
	}
}

// CreateTransaction implements api.TransactionStore.
func (c *Client) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var dto transactionDTO
	if err := c.do(ctx, http.MethodPost, "/transactions", transactionBody(in), &dto); err != nil {
		return core.Transaction{}, err
	}
	return dto.toCore(), nil
}

// GetTransaction implements api.TransactionStore.
func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var dto transactionDTO
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.Transaction{}, err
	}
	return dto.toCore(), nil
}

// UpdateTransaction implements api.TransactionStore.
func (c *Client) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	var dto transactionDTO
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), transactionBody(in), &dto); err != nil {
		return core.Transaction{}, err
	}
	return dto.toCore(), nil
}

// DeleteTransaction implements api.TransactionStore.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}
