package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn    func(ctx context.Context, txn *models.Transaction) error
	listFn      func(ctx context.Context, params pagination.Params, filters TransactionFilters) ([]models.Transaction, error)
	summarizeFn func(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if f.createFn != nil {
		return f.createFn(ctx, txn)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filters TransactionFilters) ([]models.Transaction, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params, filters)
	}
	return nil, nil
}

func (f *fakeRepository) Summarize(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error) {
	if f.summarizeFn != nil {
		return f.summarizeFn(ctx, distributerID, filters)
	}
	return &Summary{DistributerID: distributerID}, nil
}

type fakeDistributerRepo struct {
	adjustFn func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

func (f *fakeDistributerRepo) WithTx(tx *gorm.DB) distributers.Repository { return f }

func (f *fakeDistributerRepo) Create(ctx context.Context, d *models.Distributer) (*models.Distributer, error) {
	return d, nil
}

func (f *fakeDistributerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Distributer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDistributerRepo) List(ctx context.Context, addedBy *uuid.UUID) ([]models.Distributer, error) {
	return nil, nil
}

func (f *fakeDistributerRepo) UpdateFCMToken(ctx context.Context, id uuid.UUID, token *string) error {
	return nil
}

func (f *fakeDistributerRepo) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if f.adjustFn != nil {
		return f.adjustFn(ctx, id, delta)
	}
	return nil
}

func newTestTransaction(txType enums.TransactionType) *models.Transaction {
	return &models.Transaction{
		DistributerID: uuid.New(),
		Type:          txType,
		Amount:        decimal.NewFromInt(250),
		PaymentMode:   enums.LedgerPaymentModeCash,
	}
}

func TestRecordCreditAdjustsBalanceUp(t *testing.T) {
	repo := &fakeRepository{}
	var delta decimal.Decimal
	distRepo := &fakeDistributerRepo{
		adjustFn: func(ctx context.Context, id uuid.UUID, d decimal.Decimal) error {
			delta = d
			return nil
		},
	}
	svc, err := NewService(repo, distRepo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	txn := newTestTransaction(enums.TransactionTypeCredit)
	if _, err := svc.Record(context.Background(), nil, txn); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !delta.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected +250 balance delta, got %s", delta)
	}
}

func TestRecordDebitAdjustsBalanceDown(t *testing.T) {
	repo := &fakeRepository{}
	var delta decimal.Decimal
	distRepo := &fakeDistributerRepo{
		adjustFn: func(ctx context.Context, id uuid.UUID, d decimal.Decimal) error {
			delta = d
			return nil
		},
	}
	svc, err := NewService(repo, distRepo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	txn := newTestTransaction(enums.TransactionTypeDebit)
	if _, err := svc.Record(context.Background(), nil, txn); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !delta.Equal(decimal.NewFromInt(-250)) {
		t.Fatalf("expected -250 balance delta, got %s", delta)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{}, &fakeDistributerRepo{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name string
		txn  *models.Transaction
	}{
		{"nil transaction", nil},
		{"missing distributer", &models.Transaction{
			Type:        enums.TransactionTypeCredit,
			Amount:      decimal.NewFromInt(10),
			PaymentMode: enums.LedgerPaymentModeCash,
		}},
		{"invalid type", &models.Transaction{
			DistributerID: uuid.New(),
			Type:          enums.TransactionType("refund"),
			Amount:        decimal.NewFromInt(10),
			PaymentMode:   enums.LedgerPaymentModeCash,
		}},
		{"invalid mode", &models.Transaction{
			DistributerID: uuid.New(),
			Type:          enums.TransactionTypeCredit,
			Amount:        decimal.NewFromInt(10),
			PaymentMode:   enums.LedgerPaymentMode("barter"),
		}},
		{"zero amount", &models.Transaction{
			DistributerID: uuid.New(),
			Type:          enums.TransactionTypeCredit,
			PaymentMode:   enums.LedgerPaymentModeCash,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, nil, tc.txn)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecordWrapsRepositoryFailure(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, txn *models.Transaction) error {
			return errors.New("insert failed")
		},
	}
	svc, err := NewService(repo, &fakeDistributerRepo{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Record(context.Background(), nil, newTestTransaction(enums.TransactionTypeCredit))
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestListRequiresScope(t *testing.T) {
	svc, err := NewService(&fakeRepository{}, &fakeDistributerRepo{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.List(context.Background(), pagination.Params{}, TransactionFilters{})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListMapsRows(t *testing.T) {
	distributerID := uuid.New()
	rows := []models.Transaction{
		{
			ID:            uuid.New(),
			DistributerID: distributerID,
			Type:          enums.TransactionTypeCredit,
			Amount:        decimal.NewFromInt(100),
			PaymentMode:   enums.LedgerPaymentModeUPI,
		},
	}
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params pagination.Params, filters TransactionFilters) ([]models.Transaction, error) {
			return rows, nil
		},
	}
	svc, err := NewService(repo, &fakeDistributerRepo{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	list, err := svc.List(context.Background(), pagination.Params{Page: 2, Limit: 10}, TransactionFilters{DistributerID: &distributerID})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list.Transactions) != 1 {
		t.Fatalf("expected 1 row, got %d", len(list.Transactions))
	}
	if list.Page != 2 || list.Limit != 10 {
		t.Fatalf("pagination echo mismatch: %+v", list)
	}
	if list.Transactions[0].ID != rows[0].ID {
		t.Fatalf("row mapping mismatch")
	}
}

func TestSummarizeRequiresDistributer(t *testing.T) {
	svc, err := NewService(&fakeRepository{}, &fakeDistributerRepo{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Summarize(context.Background(), uuid.Nil, TransactionFilters{})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
