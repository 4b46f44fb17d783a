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

// ServiceRecordRepository implements domain.ServiceRecordRepository using PostgreSQL
type ServiceRecordRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRecordRepository creates a new ServiceRecordRepository
func NewServiceRecordRepository(pool *pgxpool.Pool) *ServiceRecordRepository {
	return &ServiceRecordRepository{pool: pool}
}

const serviceRecordColumns = `id, os_number, client, operator, plate, invoice_number, boleto_number,
	gross_amount, issue_date, due_date, payment_date, status, notes, created_by, created_at, updated_at`

func scanServiceRecord(row pgx.Row) (*domain.ServiceRecord, error) {
	var (
		record        domain.ServiceRecord
		invoiceNumber pgtype.Text
		boletoNumber  pgtype.Text
		grossAmount   pgtype.Numeric
		issueDate     pgtype.Date
		dueDate       pgtype.Date
		paymentDate   pgtype.Date
		notes         pgtype.Text
		createdBy     pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&record.ID, &record.OSNumber, &record.Client, &record.Operator, &record.Plate,
		&invoiceNumber, &boletoNumber, &grossAmount, &issueDate, &dueDate, &paymentDate,
		&record.Status, &notes, &createdBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.InvoiceNumber = pgTextToStringPtr(invoiceNumber)
	record.BoletoNumber = pgTextToStringPtr(boletoNumber)
	record.GrossAmount = pgNumericToDecimal(grossAmount)
	record.IssueDate = pgDateToDatePtr(issueDate)
	record.DueDate = pgDateToDatePtr(dueDate)
	record.PaymentDate = pgDateToDatePtr(paymentDate)
	record.Notes = pgTextToStringPtr(notes)
	record.CreatedBy = pgTextToStringPtr(createdBy)
	record.CreatedAt = pgTimestamptzToTime(createdAt)
	record.UpdatedAt = pgTimestamptzToTime(updatedAt)
	return &record, nil
}

// Create creates a new service record
func (r *ServiceRecordRepository) Create(record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	ctx := context.Background()

	grossAmount, err := decimalToPgNumeric(record.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid gross amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO service_records (
			os_number, client, operator, plate, invoice_number, boleto_number,
			gross_amount, issue_date, due_date, payment_date, status, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+serviceRecordColumns,
		record.OSNumber, record.Client, record.Operator, record.Plate,
		stringPtrToPgText(record.InvoiceNumber), stringPtrToPgText(record.BoletoNumber),
		grossAmount, datePtrToPgDate(record.IssueDate), datePtrToPgDate(record.DueDate),
		datePtrToPgDate(record.PaymentDate), string(record.Status),
		stringPtrToPgText(record.Notes), stringPtrToPgText(record.CreatedBy),
	)
	return scanServiceRecord(row)
}

// GetByID retrieves a service record by its ID
func (r *ServiceRecordRepository) GetByID(id int32) (*domain.ServiceRecord, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+serviceRecordColumns+` FROM service_records WHERE id = $1`, id)
	record, err := scanServiceRecord(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetAll retrieves service records with optional filters
func (r *ServiceRecordRepository) GetAll(filters *domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error) {
	ctx := context.Background()

	query := `SELECT ` + serviceRecordColumns + ` FROM service_records`
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
		if filters.Status != nil {
			args = append(args, string(*filters.Status))
			conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
		}
		if filters.Search != nil && *filters.Search != "" {
			args = append(args, "%"+*filters.Search+"%")
			n := len(args)
			conditions = append(conditions, fmt.Sprintf(
				"(os_number ILIKE $%d OR client ILIKE $%d OR invoice_number ILIKE $%d)", n, n, n))
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY issue_date DESC NULLS LAST, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ServiceRecord
	for rows.Next() {
		record, err := scanServiceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Update updates a service record
func (r *ServiceRecordRepository) Update(record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	ctx := context.Background()

	grossAmount, err := decimalToPgNumeric(record.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid gross amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE service_records SET
			os_number = $2, client = $3, operator = $4, plate = $5,
			invoice_number = $6, boleto_number = $7, gross_amount = $8,
			issue_date = $9, due_date = $10, payment_date = $11,
			status = $12, notes = $13, updated_at = now()
		WHERE id = $1
		RETURNING `+serviceRecordColumns,
		record.ID, record.OSNumber, record.Client, record.Operator, record.Plate,
		stringPtrToPgText(record.InvoiceNumber), stringPtrToPgText(record.BoletoNumber),
		grossAmount, datePtrToPgDate(record.IssueDate), datePtrToPgDate(record.DueDate),
		datePtrToPgDate(record.PaymentDate), string(record.Status), stringPtrToPgText(record.Notes),
	)
	updated, err := scanServiceRecord(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a service record
func (r *ServiceRecordRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM service_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// ReplaceWithInstallments deletes the original record and inserts its
// installments in a single transaction.
func (r *ServiceRecordRepository) ReplaceWithInstallments(originalID int32, installments []*domain.ServiceRecord) ([]*domain.ServiceRecord, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM service_records WHERE id = $1`, originalID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrServiceNotFound
	}

	created := make([]*domain.ServiceRecord, 0, len(installments))
	for _, inst := range installments {
		grossAmount, err := decimalToPgNumeric(inst.GrossAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid gross amount: %w", err)
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO service_records (
				os_number, client, operator, plate, invoice_number, boleto_number,
				gross_amount, issue_date, due_date, payment_date, status, notes, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING `+serviceRecordColumns,
			inst.OSNumber, inst.Client, inst.Operator, inst.Plate,
			stringPtrToPgText(inst.InvoiceNumber), stringPtrToPgText(inst.BoletoNumber),
			grossAmount, datePtrToPgDate(inst.IssueDate), datePtrToPgDate(inst.DueDate),
			datePtrToPgDate(inst.PaymentDate), string(inst.Status),
			stringPtrToPgText(inst.Notes), stringPtrToPgText(inst.CreatedBy),
		)
		rec, err := scanServiceRecord(row)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// FindPlateByOSNumber returns the plate of the most recent record with the given OS number
func (r *ServiceRecordRepository) FindPlateByOSNumber(osNumber string) (string, error) {
	var plate string
	err := r.pool.QueryRow(context.Background(),
		`SELECT plate FROM service_records WHERE os_number = $1 ORDER BY id DESC LIMIT 1`,
		osNumber).Scan(&plate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrServiceNotFound
		}
		return "", err
	}
	return plate, nil
}

// FindPlateByInvoiceNumber returns the plate of the most recent record with the given invoice number
func (r *ServiceRecordRepository) FindPlateByInvoiceNumber(invoiceNumber string) (string, error) {
	var plate string
	err := r.pool.QueryRow(context.Background(),
		`SELECT plate FROM service_records WHERE invoice_number = $1 ORDER BY id DESC LIMIT 1`,
		invoiceNumber).Scan(&plate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrServiceNotFound
		}
		return "", err
	}
	return plate, nil
}
