package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	// EntryType classifies a transaction or category as income or expense.
	EntryType string

	Transaction struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category"`
		Type        EntryType `json:"type"`
		Date        string    `json:"date"`
		Time        string    `json:"time"`
		Description string    `json:"description,omitempty"`
		CreatedAt   string    `json:"created_at"`
	}

	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Type      EntryType `json:"type"`
		Budget    float64   `json:"budget"`
		Icon      string    `json:"icon"`
		Color     string    `json:"color"`
		CreatedAt string    `json:"created_at"`
	}

	// BudgetSummary aggregates all transactions against the expense budgets.
	BudgetSummary struct {
		TotalIncome     float64 `json:"total_income"`
		TotalExpenses   float64 `json:"total_expenses"`
		Balance         float64 `json:"balance"`
		BudgetUsed      float64 `json:"budget_used"`
		BudgetRemaining float64 `json:"budget_remaining"`
	}

	// CategorySpending is one row of the per-category spend analysis.
	CategorySpending struct {
		Name       string  `json:"name"`
		Budget     float64 `json:"budget"`
		Icon       string  `json:"icon"`
		Color      string  `json:"color"`
		Spent      float64 `json:"spent"`
		Remaining  float64 `json:"remaining"`
		Percentage float64 `json:"percentage"`
	}

	// TransactionFilter narrows a transaction listing. Zero values mean
	// no filtering; Limit <= 0 falls back to DefaultListLimit.
	TransactionFilter struct {
		Type     EntryType
		Category string
		Limit    int
	}
)

// DefaultListLimit caps transaction listings when the caller does not ask
// for a specific limit.
const DefaultListLimit = 100

// Defaults applied when a category create payload omits optional fields.
const (
	DefaultCategoryIcon  = "category"
	DefaultCategoryColor = "#2196F3"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("category name already exists")

	ErrInvalidType    = errors.New("type must be 'income' or 'expense'")
	ErrEmptyTitle     = errors.New("empty title")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptyDate      = errors.New("empty date")
	ErrEmptyTime      = errors.New("empty time")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrNegativeBudget = errors.New("budget must not be negative")
)

// ValidationError marks a boundary validation failure so the HTTP layer can
// report it as a client error rather than a server fault.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// Validate reports whether t is one of the two allowed entry types. Any
// other value must be rejected at the boundary, not left to the storage
// CHECK constraint.
func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// Validate checks a transaction create payload. Date and time are opaque
// strings by contract; callers supply zero-padded ISO-like values so that
// string ordering matches chronological ordering.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", ErrEmptyTitle)
	}
	if t.Amount < 0 {
		return invalid("amount", ErrNegativeAmount)
	}
	if strings.TrimSpace(t.Category) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if err := t.Type.Validate(); err != nil {
		return invalid("type", err)
	}
	if strings.TrimSpace(t.Date) == "" {
		return invalid("date", ErrEmptyDate)
	}
	if strings.TrimSpace(t.Time) == "" {
		return invalid("time", ErrEmptyTime)
	}
	return nil
}

// Validate checks a category create payload after defaults are applied.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if err := c.Type.Validate(); err != nil {
		return invalid("type", err)
	}
	if c.Budget < 0 {
		return invalid("budget", ErrNegativeBudget)
	}
	return nil
}
