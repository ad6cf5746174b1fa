package payments

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/internal/orders"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS distributers (
  id TEXT PRIMARY KEY,
  distributer_id TEXT NOT NULL UNIQUE,
  fullname TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT NOT NULL,
  credit_limit NUMERIC NOT NULL DEFAULT 0,
  balance NUMERIC NOT NULL DEFAULT 0,
  added_by TEXT NOT NULL,
  fcm_token TEXT,
  whatsapp_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  distributer_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit TEXT NOT NULL,
  note TEXT,
  total NUMERIC NOT NULL,
  paid INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'processing',
  payment_mode TEXT NOT NULL,
  assigned_to TEXT,
  cod INTEGER NOT NULL DEFAULT 0,
  transaction_id TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  distributer_id TEXT NOT NULL,
  transaction_add_by TEXT,
  order_id TEXT,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  payment_mode TEXT NOT NULL,
  reference TEXT,
  created_at DATETIME
);`
	for _, stmt := range regexp.MustCompile(`;\s*\n`).Split(schema, -1) {
		if stmt == "" {
			continue
		}
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

type paymentsFixture struct {
	db          *gorm.DB
	coordinator Coordinator
	ordersRepo  orders.Repository
	ledgerRepo  ledger.Repository
	distRepo    distributers.Repository
}

func newPaymentsFixture(t *testing.T) *paymentsFixture {
	t.Helper()
	db := setupPaymentsTestDB(t)

	ordersRepo := orders.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	distRepo := distributers.NewRepository(db)

	ledgerSvc, err := ledger.NewService(ledgerRepo, distRepo)
	require.NoError(t, err)

	coordinator, err := NewCoordinator(ordersRepo, ledgerSvc, gormTxRunner{db: db}, nil)
	require.NoError(t, err)

	return &paymentsFixture{
		db:          db,
		coordinator: coordinator,
		ordersRepo:  ordersRepo,
		ledgerRepo:  ledgerRepo,
		distRepo:    distRepo,
	}
}

func (f *paymentsFixture) seedDistributer(t *testing.T) *models.Distributer {
	t.Helper()
	d := &models.Distributer{
		ID:            uuid.New(),
		DistributerID: "DIST-" + uuid.NewString()[:8],
		Fullname:      "News Stand",
		PhoneNumber:   uuid.NewString(),
		Email:         uuid.NewString() + "@example.com",
		Address:       "12 Market Road",
		AddedBy:       uuid.New(),
	}
	created, err := f.distRepo.Create(context.Background(), d)
	require.NoError(t, err)
	return created
}

func (f *paymentsFixture) seedOrder(t *testing.T, distributerID uuid.UUID, total int64) *models.Order {
	t.Helper()
	assignee := uuid.New()
	order := &models.Order{
		ID:            uuid.New(),
		OrderID:       "ORDER-" + uuid.NewString()[:8],
		DistributerID: distributerID,
		Qty:           100,
		Unit:          "copies",
		Total:         decimal.NewFromInt(total),
		Status:        enums.OrderStatusProcessing,
		PaymentMode:   enums.OrderPaymentModeCOD,
		AssignedTo:    &assignee,
		COD:           true,
	}
	created, err := f.ordersRepo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func (f *paymentsFixture) transactions(t *testing.T, orderID uuid.UUID) []models.Transaction {
	t.Helper()
	rows, err := f.ledgerRepo.ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	return rows
}

func TestUpdatePaymentMarksPaidAndCredits(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 650)
	actor := uuid.New()

	updated, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("upi"),
		AuthActorID: &actor,
	})
	require.NoError(t, err)

	assert.True(t, updated.Paid)
	require.NotNil(t, updated.PaidAt)
	require.NotNil(t, updated.TransactionID)
	assert.Regexp(t, `^UPI\d{8}$`, *updated.TransactionID)

	txns := f.transactions(t, order.ID)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionTypeCredit, txns[0].Type)
	assert.Equal(t, enums.LedgerPaymentModeUPI, txns[0].PaymentMode)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(650)))
	require.NotNil(t, txns[0].TransactionAddBy)
	assert.Equal(t, actor, *txns[0].TransactionAddBy)

	refreshed, err := f.distRepo.FindByID(context.Background(), distributer.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Balance.Equal(decimal.NewFromInt(650)), "balance %s", refreshed.Balance)
}

func TestUpdatePaymentRepeatedPaidIsIdempotent(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 400)

	for i := 0; i < 3; i++ {
		_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
			OrderID:     order.ID,
			Paid:        boolPtr(true),
			PaymentMode: strPtr("cash"),
		})
		require.NoError(t, err)
	}

	txns := f.transactions(t, order.ID)
	assert.Len(t, txns, 1, "repeated paid=true must not duplicate the credit")

	refreshed, err := f.distRepo.FindByID(context.Background(), distributer.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Balance.Equal(decimal.NewFromInt(400)), "balance %s", refreshed.Balance)
}

func TestUpdatePaymentRepeatedPaidLeavesOrderUntouched(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 250)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("upi"),
	})
	require.NoError(t, err)
	afterFirst, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, afterFirst.TransactionID)
	require.NotNil(t, afterFirst.PaidAt)

	_, err = f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID: order.ID,
		Paid:    boolPtr(true),
	})
	require.NoError(t, err)

	afterSecond, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, afterSecond.TransactionID)
	assert.Equal(t, *afterFirst.TransactionID, *afterSecond.TransactionID, "repeat must not synthesize a new reference")
	require.NotNil(t, afterSecond.PaidAt)
	assert.True(t, afterFirst.PaidAt.Equal(*afterSecond.PaidAt), "repeat must not move paid_at")
	assert.Equal(t, afterFirst.PaymentMode, afterSecond.PaymentMode)
	assert.Len(t, f.transactions(t, order.ID), 1)
}

func TestUpdatePaymentModeOnlyKeepsSettledState(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 180)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("cash"),
	})
	require.NoError(t, err)
	afterPay, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		PaymentMode: strPtr("upi"),
	})
	require.NoError(t, err)

	reloaded, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Paid, "mode-only update must not unsettle the order")
	assert.Equal(t, enums.OrderPaymentModeUPI, reloaded.PaymentMode)
	require.NotNil(t, reloaded.PaidAt)
	assert.True(t, afterPay.PaidAt.Equal(*reloaded.PaidAt))
	assert.Len(t, f.transactions(t, order.ID), 1)
}

func TestUpdatePaymentReversalRejected(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 90)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("cash"),
	})
	require.NoError(t, err)

	_, err = f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID: order.ID,
		Paid:    boolPtr(false),
	})
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())

	reloaded, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Paid)
	assert.Len(t, f.transactions(t, order.ID), 1)
}

func TestUpdatePaymentDefaultsModeFromOrder(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 120)

	updated, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID: order.ID,
		Paid:    boolPtr(true),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TransactionID)
	assert.Regexp(t, `^CSH\d{8}$`, *updated.TransactionID)

	txns := f.transactions(t, order.ID)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.LedgerPaymentModeCash, txns[0].PaymentMode)
}

func TestUpdatePaymentKeepsExplicitReference(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 100)

	ref := "BANKWIRE-991"
	updated, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("bank"),
		Reference:   &ref,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TransactionID)
	assert.Equal(t, ref, *updated.TransactionID)

	txns := f.transactions(t, order.ID)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].Reference)
	assert.Equal(t, ref, *txns[0].Reference)
}

func TestUpdatePaymentLedgerFailureRollsBack(t *testing.T) {
	f := newPaymentsFixture(t)
	distributer := f.seedDistributer(t)
	order := f.seedOrder(t, distributer.ID, 300)

	// Drop the distributer so the balance adjustment inside the ledger
	// write fails after the order row has been updated.
	require.NoError(t, f.db.Exec("DELETE FROM distributers WHERE id = ?", distributer.ID).Error)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     order.ID,
		Paid:        boolPtr(true),
		PaymentMode: strPtr("cash"),
	})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeTxAborted, coded.Code())

	reloaded, err := f.ordersRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Paid, "order update must roll back with the ledger write")
	assert.Nil(t, reloaded.TransactionID)
	assert.Empty(t, f.transactions(t, order.ID))
}

func TestUpdatePaymentUnknownOrder(t *testing.T) {
	f := newPaymentsFixture(t)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     uuid.New(),
		Paid:        boolPtr(true),
		PaymentMode: strPtr("cash"),
	})
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestUpdatePaymentInvalidMode(t *testing.T) {
	f := newPaymentsFixture(t)

	_, err := f.coordinator.UpdatePayment(context.Background(), UpdatePaymentInput{
		OrderID:     uuid.New(),
		Paid:        boolPtr(true),
		PaymentMode: strPtr("barter"),
	})
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}
