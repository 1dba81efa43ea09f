package store

import (
	"context"

	"budget/internal/core"
)

// Ports for the storage adapter, split by the handler groups that consume them.
type (
	TransactionStore interface {
		// CreateTransaction persists t and returns it with the
		// storage-assigned id and created_at filled in.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)

		// GetTransaction returns core.ErrNotFound when no row has the id.
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)

		// ListTransactions returns rows ordered by (date desc, time desc).
		ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)

		// DeleteTransaction returns core.ErrNotFound when the delete
		// affected zero rows.
		DeleteTransaction(ctx context.Context, id int64) error
	}

	CategoryStore interface {
		// CreateCategory returns core.ErrDuplicateName when the name is
		// already taken.
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)

		// ListCategories returns rows ordered by name; typeFilter may be
		// empty to list everything.
		ListCategories(ctx context.Context, typeFilter core.EntryType) ([]core.Category, error)
	}

	// BudgetReader provides the aggregate views over all transactions.
	BudgetReader interface {
		BudgetSummary(ctx context.Context) (core.BudgetSummary, error)

		// CategorySpending returns one row per expense category ordered by
		// spent desc, including categories with no matching transactions.
		CategorySpending(ctx context.Context) ([]core.CategorySpending, error)
	}
)
