package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

// datePtrToPgDate converts an optional civil date for a DATE column.
func datePtrToPgDate(d *domain.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// pgDateToDatePtr converts a DATE column back to a civil date anchored at
// local midnight, regardless of the zone the driver scanned it in.
func pgDateToDatePtr(d pgtype.Date) *domain.Date {
	if !d.Valid {
		return nil
	}
	date := domain.NewDate(d.Time.Year(), d.Time.Month(), d.Time.Day())
	return &date
}

func int32PtrToPgInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}

func pgInt4ToInt32Ptr(v pgtype.Int4) *int32 {
	if !v.Valid {
		return nil
	}
	return &v.Int32
}

func pgTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	return t.Time
}
