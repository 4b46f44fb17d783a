package service

import (
	"errors"
	"testing"

	"github.com/munckapp/munck-backend/internal/domain"
	"github.com/munckapp/munck-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func setupExpenseService() (*ExpenseService, *testutil.MockExpenseRepository, *testutil.MockVehicleRepository) {
	expenseRepo := testutil.NewMockExpenseRepository()
	vehicleRepo := testutil.NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{Plate: "ABC1D23", Model: "Munck 12t", Status: domain.VehicleActive})
	return NewExpenseService(expenseRepo, vehicleRepo), expenseRepo, vehicleRepo
}

func TestExpenseCreate(t *testing.T) {
	svc, repo, _ := setupExpenseService()

	expense := &domain.Expense{
		Vendor:      "Posto Ipiranga",
		Plate:       "abc1d23",
		TotalAmount: decimal.RequireFromString("350.00"),
	}

	created, err := svc.Create(expense, "Maria Souza")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Plate != "ABC1D23" {
		t.Errorf("Create() plate = %q, want normalized ABC1D23", created.Plate)
	}
	if created.CreatedBy == nil || *created.CreatedBy != "Maria Souza" {
		t.Errorf("Create() createdBy = %v, want Maria Souza", created.CreatedBy)
	}
	if len(repo.Expenses) != 1 {
		t.Errorf("repository has %d expenses, want 1", len(repo.Expenses))
	}
}

func TestExpenseCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		expense *domain.Expense
		wantErr error
	}{
		{
			name:    "missing vendor",
			expense: &domain.Expense{Plate: "ABC1D23", TotalAmount: decimal.NewFromInt(10)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing plate",
			expense: &domain.Expense{Vendor: "Posto", TotalAmount: decimal.NewFromInt(10)},
			wantErr: domain.ErrPlateRequired,
		},
		{
			name:    "unknown vehicle",
			expense: &domain.Expense{Vendor: "Posto", Plate: "ZZZ9Z99", TotalAmount: decimal.NewFromInt(10)},
			wantErr: domain.ErrVehicleNotFound,
		},
		{
			name:    "negative amount",
			expense: &domain.Expense{Vendor: "Posto", Plate: "ABC1D23", TotalAmount: decimal.NewFromInt(-10)},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupExpenseService()
			_, err := svc.Create(tt.expense, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseUpdatePreservesReceiptKey(t *testing.T) {
	svc, repo, _ := setupExpenseService()
	key := "expenses/1/abc"
	repo.AddExpense(&domain.Expense{
		Vendor: "Posto", Plate: "ABC1D23",
		TotalAmount: decimal.NewFromInt(100), ReceiptKey: &key,
	})

	updated, err := svc.Update(&domain.Expense{
		ID: 1, Vendor: "Posto Shell", Plate: "ABC1D23",
		TotalAmount: decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ReceiptKey == nil || *updated.ReceiptKey != key {
		t.Errorf("Update() receiptKey = %v, want preserved %q", updated.ReceiptKey, key)
	}
}

func TestExpenseDelete(t *testing.T) {
	svc, repo, _ := setupExpenseService()
	repo.AddExpense(&domain.Expense{
		Vendor: "Posto", Plate: "ABC1D23", TotalAmount: decimal.NewFromInt(100),
	})

	if err := svc.Delete(1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(1); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("second Delete() error = %v, want ErrExpenseNotFound", err)
	}
}

func TestExpenseListNormalizesPlateFilter(t *testing.T) {
	svc, repo, _ := setupExpenseService()
	repo.AddExpense(&domain.Expense{
		Vendor: "Posto", Plate: "ABC1D23", TotalAmount: decimal.NewFromInt(100),
	})

	plate := "abc1d23"
	expenses, err := svc.List(&domain.ExpenseFilters{Plate: &plate})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(expenses) != 1 {
		t.Errorf("List() returned %d expenses, want 1", len(expenses))
	}
}
