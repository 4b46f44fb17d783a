package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func pendingRecord(due string) *ServiceRecord {
	return &ServiceRecord{
		OSNumber:    "OS-100",
		GrossAmount: decimal.NewFromInt(1000),
		Status:      StatusPending,
		DueDate:     ParseDateOrNil(due),
	}
}

func TestEffectiveStatus(t *testing.T) {
	today := NewDate(2024, time.January, 10)

	tests := []struct {
		name   string
		record *ServiceRecord
		want   ServiceStatus
	}{
		{"canceled stays canceled even with future due date", &ServiceRecord{Status: StatusCanceled, DueDate: ParseDateOrNil("2024-02-01")}, StatusCanceled},
		{"paid stays paid even when past due", &ServiceRecord{Status: StatusPaid, DueDate: ParseDateOrNil("2023-12-01")}, StatusPaid},
		{"pending with future due date is upcoming", pendingRecord("2024-01-20"), StatusUpcoming},
		{"pending due today is overdue", pendingRecord("2024-01-10"), StatusOverdue},
		{"pending past due is overdue", pendingRecord("2024-01-05"), StatusOverdue},
		{"pending without due date is overdue", pendingRecord(""), StatusOverdue},
		{"stored overdue with future due date becomes upcoming", &ServiceRecord{Status: StatusOverdue, DueDate: ParseDateOrNil("2024-01-20")}, StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.EffectiveStatus(today); got != tt.want {
				t.Errorf("EffectiveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEffectiveStatusDeterministic(t *testing.T) {
	today := NewDate(2024, time.January, 10)
	r := pendingRecord("2024-01-20")
	first := r.EffectiveStatus(today)
	for i := 0; i < 5; i++ {
		if got := r.EffectiveStatus(today); got != first {
			t.Fatalf("derivation changed between calls: %s then %s", first, got)
		}
	}
	if r.Status != StatusPending {
		t.Errorf("derivation mutated stored status to %s", r.Status)
	}
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		name   string
		record *ServiceRecord
		today  Date
		want   int
	}{
		{"five days past due", pendingRecord("2024-01-20"), NewDate(2024, time.January, 25), 5},
		{"due today counts zero", pendingRecord("2024-01-10"), NewDate(2024, time.January, 10), 0},
		{"upcoming record counts zero", pendingRecord("2024-01-20"), NewDate(2024, time.January, 10), 0},
		{"paid record counts zero", &ServiceRecord{Status: StatusPaid, DueDate: ParseDateOrNil("2023-12-01")}, NewDate(2024, time.January, 10), 0},
		{"no due date counts zero", pendingRecord(""), NewDate(2024, time.January, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.DaysOverdue(tt.today); got != tt.want {
				t.Errorf("DaysOverdue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsInstallment(t *testing.T) {
	tests := []struct {
		os   string
		want bool
	}{
		{"OS-100", false},
		{"OS-100 (1/3)", true},
		{"OS-100 (12/12)", true},
		{"OS-100 (a/b)", false},
	}

	for _, tt := range tests {
		r := &ServiceRecord{OSNumber: tt.os}
		if got := r.IsInstallment(); got != tt.want {
			t.Errorf("IsInstallment(%q) = %v, want %v", tt.os, got, tt.want)
		}
	}
}

func TestValidStoredStatus(t *testing.T) {
	for _, s := range StoredStatuses {
		if !ValidStoredStatus(s) {
			t.Errorf("stored status %s rejected", s)
		}
	}
	if ValidStoredStatus(StatusUpcoming) {
		t.Error("derived status must not be storable")
	}
	if ValidStoredStatus("Pendente ") {
		t.Error("unnormalized status must not be storable")
	}
}
