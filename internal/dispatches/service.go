// Package dispatches records manual stock-outs of papers and keeps the
// distributer ledger in step with them. Every recorded dispatch produces
// exactly one debit inside the same database transaction, so a dispatch
// row without its ledger entry can never be observed.
package dispatches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/internal/push"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(msg push.Message)
}

// Service defines dispatch operations.
type Service interface {
	Record(ctx context.Context, input RecordDispatchInput) (*models.PaperDispatch, error)
	List(ctx context.Context, params pagination.Params, filters DispatchFilters) (*DispatchList, error)
	ListBySeller(ctx context.Context, params pagination.Params, sellerID uuid.UUID) (*DispatchList, error)
	ListToday(ctx context.Context, params pagination.Params, filters DispatchFilters) (*DispatchList, error)
}

type service struct {
	repo        Repository
	distributer distributers.Repository
	ledger      ledger.Service
	tx          txRunner
	notify      notifier
	now         func() time.Time
}

// Config carries the service dependencies.
type Config struct {
	Repo         Repository
	Distributers distributers.Repository
	Ledger       ledger.Service
	Tx           txRunner
	Notifier     notifier
	// Now defaults to time.Now. Tests override it to pin the day window.
	Now func() time.Time
}

// NewService builds the dispatch service with the required dependencies.
func NewService(cfg Config) (Service, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("dispatch repository required")
	}
	if cfg.Distributers == nil {
		return nil, fmt.Errorf("distributers repository required")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if cfg.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        cfg.Repo,
		distributer: cfg.Distributers,
		ledger:      cfg.Ledger,
		tx:          cfg.Tx,
		notify:      cfg.Notifier,
		now:         now,
	}, nil
}

func (s *service) Record(ctx context.Context, input RecordDispatchInput) (*models.PaperDispatch, error) {
	if input.DistributerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer id required")
	}
	if input.SoldBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit required")
	}
	if !input.TotalPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total price must be positive")
	}
	mode, err := enums.ParseDispatchMode(input.Mode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	var dispatch *models.PaperDispatch
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.distributer.WithTx(tx).FindByID(ctx, input.DistributerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "distributer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distributer")
		}

		dispatch, err = s.repo.WithTx(tx).Create(ctx, &models.PaperDispatch{
			DistributerID: input.DistributerID,
			SoldBy:        input.SoldBy,
			Qty:           input.Qty,
			Unit:          unit,
			TotalPrice:    input.TotalPrice,
			Mode:          mode,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dispatch")
		}

		txn := ledger.DebitForDispatch(dispatch, input.ActorID)
		if _, err := s.ledger.Record(ctx, tx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTxAborted, err, "record dispatch debit")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(push.Message{
			Event:         "paper_dispatch",
			Title:         "Papers dispatched",
			Body:          fmt.Sprintf("%d %s dispatched on %s", dispatch.Qty, dispatch.Unit, mode),
			RecipientType: enums.RecipientTypeDistributer,
			RecipientID:   dispatch.DistributerID,
			Data:          map[string]string{"dispatch_id": dispatch.ID.String()},
		})
	}

	return dispatch, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters DispatchFilters) (*DispatchList, error) {
	if filters.DistributerID == nil && filters.SellerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer or seller filter required")
	}
	return s.list(ctx, params, filters)
}

func (s *service) ListBySeller(ctx context.Context, params pagination.Params, sellerID uuid.UUID) (*DispatchList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	return s.list(ctx, params, DispatchFilters{SellerID: &sellerID})
}

// ListToday pins the date range to the current UTC day. Caller filters on
// distributer or seller still apply, but any supplied range is replaced.
func (s *service) ListToday(ctx context.Context, params pagination.Params, filters DispatchFilters) (*DispatchList, error) {
	start := s.now().UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	filters.RangeFrom = &start
	filters.RangeTo = &end
	return s.list(ctx, params, filters)
}

func (s *service) list(ctx context.Context, params pagination.Params, filters DispatchFilters) (*DispatchList, error) {
	rows, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dispatches")
	}

	summaries := make([]DispatchSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, DispatchSummary{
			ID:            row.ID,
			DistributerID: row.DistributerID,
			SoldBy:        row.SoldBy,
			Qty:           row.Qty,
			Unit:          row.Unit,
			TotalPrice:    row.TotalPrice,
			Mode:          row.Mode,
			CreatedAt:     row.CreatedAt,
		})
	}

	return &DispatchList{
		Dispatches: summaries,
		Page:       pagination.NormalizePage(params.Page),
		Limit:      params.PageLimit(),
	}, nil
}
