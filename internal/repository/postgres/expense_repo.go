package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munckapp/munck-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, vendor, description, plate, total_amount, issue_date, due_date,
	notes, receipt_key, created_by, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense     domain.Expense
		totalAmount pgtype.Numeric
		issueDate   pgtype.Date
		dueDate     pgtype.Date
		notes       pgtype.Text
		receiptKey  pgtype.Text
		createdBy   pgtype.Text
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&expense.ID, &expense.Vendor, &expense.Description, &expense.Plate,
		&totalAmount, &issueDate, &dueDate, &notes, &receiptKey, &createdBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.TotalAmount = pgNumericToDecimal(totalAmount)
	expense.IssueDate = pgDateToDatePtr(issueDate)
	expense.DueDate = pgDateToDatePtr(dueDate)
	expense.Notes = pgTextToStringPtr(notes)
	expense.ReceiptKey = pgTextToStringPtr(receiptKey)
	expense.CreatedBy = pgTextToStringPtr(createdBy)
	expense.CreatedAt = pgTimestamptzToTime(createdAt)
	expense.UpdatedAt = pgTimestamptzToTime(updatedAt)
	return &expense, nil
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	totalAmount, err := decimalToPgNumeric(expense.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO expenses (vendor, description, plate, total_amount, issue_date, due_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+expenseColumns,
		expense.Vendor, expense.Description, expense.Plate, totalAmount,
		datePtrToPgDate(expense.IssueDate), datePtrToPgDate(expense.DueDate),
		stringPtrToPgText(expense.Notes), stringPtrToPgText(expense.CreatedBy),
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// GetAll retrieves expenses with optional filters
func (r *ExpenseRepository) GetAll(filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var conditions []string
	var args []any

	if filters != nil {
		if filters.Plate != nil {
			args = append(args, *filters.Plate)
			conditions = append(conditions, fmt.Sprintf("plate = $%d", len(args)))
		}
		if filters.Period != nil && !filters.Period.IsAll() {
			start, end := filters.Period.Bounds()
			args = append(args, start.Time())
			conditions = append(conditions, fmt.Sprintf("issue_date >= $%d", len(args)))
			args = append(args, end.Time())
			conditions = append(conditions, fmt.Sprintf("issue_date <= $%d", len(args)))
		}
		if filters.Search != nil && *filters.Search != "" {
			args = append(args, "%"+*filters.Search+"%")
			n := len(args)
			conditions = append(conditions, fmt.Sprintf(
				"(vendor ILIKE $%d OR description ILIKE $%d)", n, n))
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY issue_date DESC NULLS LAST, id DESC"

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update updates an expense
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	totalAmount, err := decimalToPgNumeric(expense.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE expenses SET
			vendor = $2, description = $3, plate = $4, total_amount = $5,
			issue_date = $6, due_date = $7, notes = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+expenseColumns,
		expense.ID, expense.Vendor, expense.Description, expense.Plate, totalAmount,
		datePtrToPgDate(expense.IssueDate), datePtrToPgDate(expense.DueDate),
		stringPtrToPgText(expense.Notes),
	)
	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptKey stores (or clears) the receipt object key for an expense
func (r *ExpenseRepository) SetReceiptKey(id int32, key *string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE expenses SET receipt_key = $2, updated_at = now() WHERE id = $1`,
		id, stringPtrToPgText(key))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
