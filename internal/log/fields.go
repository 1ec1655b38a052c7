package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldBackend       = "backend"
	FieldEntity        = "entity"
	FieldAction        = "action"
	FieldTransactionID = "transaction_id"
	FieldGoalID        = "goal_id"
	FieldAccountID     = "account_id"
	FieldBudgetID      = "budget_id"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldSavings       = "savings"
	FieldStatusCode    = "status_code"
	FieldPath          = "path"
	FieldMethod        = "method"
	FieldGeneration    = "generation"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentFinances = "finances"
	ComponentREST     = "rest"
	ComponentMemory   = "memory"
	ComponentStorage  = "storage"
	ComponentEvents   = "events"
	ComponentAdvisor  = "advisor"
	ComponentBackend  = "backend"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpLogin      = "login"
	OpLogout     = "logout"
	OpRefetch    = "refetch"
	OpCreate     = "create"
	OpDelete     = "delete"
	OpContribute = "contribute"
	OpList       = "list"
	OpSave       = "save"
	OpLoad       = "load"
	OpPublish    = "publish"
)
