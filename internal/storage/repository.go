package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budget/internal/core"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository is the single storage adapter. It implements
// store.TransactionStore, store.CategoryStore and store.BudgetReader.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// busy_timeout keeps concurrent writers retrying inside the engine
	// instead of surfacing SQLITE_BUSY to handlers.
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	if err := repo.seedDefaultCategories(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed default categories: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// seedDefaultCategories inserts the fixed seed set with insert-or-ignore
// semantics. Safe to call on every boot.
func (r *SQLiteRepository) seedDefaultCategories(ctx context.Context) error {
	for _, c := range defaultCategories {
		_, err := r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (name, type, budget, icon, color, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.Name, string(c.Type), c.Budget, c.Icon, c.Color, nowTimestamp())
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return nil
}

// CreateTransaction implements store.TransactionStore.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.CreatedAt = nowTimestamp()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (title, amount, category, type, date, time, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Amount, t.Category, string(t.Type), t.Date, t.Time, t.Description, t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"title", t.Title,
		"amount", t.Amount,
		"category", t.Category,
		"type", t.Type)

	return t, nil
}

// GetTransaction implements store.TransactionStore.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, amount, category, type, date, time, COALESCE(description, ''), created_at
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// ListTransactions implements store.TransactionStore.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	query := `
		SELECT id, title, amount, category, type, date, time, COALESCE(description, ''), created_at
		FROM transactions WHERE 1=1`
	args := []any{}

	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = core.DefaultListLimit
	}
	// String comparison on date/time is the ordering contract; callers
	// supply zero-padded ISO-like values.
	query += " ORDER BY date DESC, time DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// DeleteTransaction implements store.TransactionStore.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// CreateCategory implements store.CategoryStore.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.CreatedAt = nowTimestamp()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, type, budget, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Type), c.Budget, c.Icon, c.Color, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, core.ErrDuplicateName
		}
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	c.ID = id

	slog.InfoContext(ctx, "Category created",
		"id", c.ID,
		"name", c.Name,
		"type", c.Type,
		"budget", c.Budget)

	return c, nil
}

// ListCategories implements store.CategoryStore.
func (r *SQLiteRepository) ListCategories(ctx context.Context, typeFilter core.EntryType) ([]core.Category, error) {
	query := `SELECT id, name, type, budget, icon, color, created_at FROM categories`
	args := []any{}
	if typeFilter != "" {
		query += " WHERE type = ?"
		args = append(args, string(typeFilter))
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		var entryType string
		if err := rows.Scan(&c.ID, &c.Name, &entryType, &c.Budget, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.EntryType(entryType)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// BudgetSummary implements store.BudgetReader.
func (r *SQLiteRepository) BudgetSummary(ctx context.Context) (core.BudgetSummary, error) {
	var s core.BudgetSummary
	var totalBudget float64

	row := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = 'income'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = 'expense'), 0),
			COALESCE((SELECT SUM(budget) FROM categories WHERE type = 'expense'), 0)`)
	if err := row.Scan(&s.TotalIncome, &s.TotalExpenses, &totalBudget); err != nil {
		return core.BudgetSummary{}, fmt.Errorf("budget summary: %w", err)
	}

	s.Balance = s.TotalIncome - s.TotalExpenses
	s.BudgetUsed = s.TotalExpenses
	s.BudgetRemaining = totalBudget - s.TotalExpenses
	return s, nil
}

// CategorySpending implements store.BudgetReader. The join is name-based by
// contract; category name uniqueness keeps spend attribution unambiguous.
func (r *SQLiteRepository) CategorySpending(ctx context.Context) ([]core.CategorySpending, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.name,
			c.budget,
			c.icon,
			c.color,
			COALESCE(SUM(t.amount), 0) AS spent
		FROM categories c
		LEFT JOIN transactions t ON c.name = t.category AND t.type = 'expense'
		WHERE c.type = 'expense'
		GROUP BY c.id, c.name, c.budget, c.icon, c.color
		ORDER BY spent DESC`)
	if err != nil {
		return nil, fmt.Errorf("category spending: %w", err)
	}
	defer rows.Close()

	result := []core.CategorySpending{}
	for rows.Next() {
		var cs core.CategorySpending
		if err := rows.Scan(&cs.Name, &cs.Budget, &cs.Icon, &cs.Color, &cs.Spent); err != nil {
			return nil, fmt.Errorf("scan category spending: %w", err)
		}
		cs.Remaining = cs.Budget - cs.Spent
		if cs.Budget > 0 {
			cs.Percentage = cs.Spent / cs.Budget * 100
		}
		result = append(result, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category spending: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var entryType string
	err := row.Scan(&t.ID, &t.Title, &t.Amount, &t.Category, &entryType,
		&t.Date, &t.Time, &t.Description, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.EntryType(entryType)
	return t, nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. Checks the driver error code first, falling back to the message
// for wrapped errors that lost their type.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			code == sqlite3.SQLITE_CONSTRAINT
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
