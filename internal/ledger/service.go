package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service records immutable ledger entries and answers ledger queries.
type Service interface {
	// Record persists the transaction and moves the distributer balance in
	// the same unit of work when tx is supplied.
	Record(ctx context.Context, tx *gorm.DB, txn *models.Transaction) (*models.Transaction, error)
	List(ctx context.Context, params pagination.Params, filters TransactionFilters) (*TransactionList, error)
	Summarize(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error)
}

type service struct {
	repo        Repository
	distributer distributers.Repository
}

// NewService wires a ledger service with the provided repositories.
func NewService(repo Repository, distributer distributers.Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repository required")
	}
	if distributer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "distributers repository required")
	}
	return &service{repo: repo, distributer: distributer}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, txn *models.Transaction) (*models.Transaction, error) {
	if txn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	if txn.DistributerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer id required")
	}
	if !txn.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if !txn.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment mode")
	}
	if !txn.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	if err := repo.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ledger transaction")
	}

	delta := txn.Amount
	if txn.Type.IsDebit() {
		delta = delta.Neg()
	}
	if err := s.distributer.WithTx(tx).AdjustBalance(ctx, txn.DistributerID, delta); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distributer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust distributer balance")
	}

	return txn, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters TransactionFilters) (*TransactionList, error) {
	if filters.DistributerID == nil && filters.ActorID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer or actor filter required")
	}

	rows, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger transactions")
	}

	summaries := make([]TransactionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, TransactionSummary{
			ID:               row.ID,
			DistributerID:    row.DistributerID,
			TransactionAddBy: row.TransactionAddBy,
			OrderID:          row.OrderID,
			Type:             row.Type,
			Amount:           row.Amount,
			PaymentMode:      row.PaymentMode,
			Reference:        row.Reference,
			CreatedAt:        row.CreatedAt,
		})
	}

	return &TransactionList{
		Transactions: summaries,
		Page:         pagination.NormalizePage(params.Page),
		Limit:        params.PageLimit(),
	}, nil
}

func (s *service) Summarize(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error) {
	if distributerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer id required")
	}

	summary, err := s.repo.Summarize(ctx, distributerID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize ledger")
	}
	return summary, nil
}
