package backend

import "dirav/internal/api"

// Backend represents a unified collaborator interface that provides all
// operations the finances store depends on
type Backend interface {
	api.Authenticator
	api.AccountStore
	api.TransactionStore
	api.SavingsStore
	api.BudgetStore
	api.Pinger
}
