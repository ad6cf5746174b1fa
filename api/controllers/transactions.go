package controllers

import (
	"net/http"
	"time"

	"github.com/paperlane/circulation-backend/api/middleware"
	"github.com/paperlane/circulation-backend/api/responses"
	"github.com/paperlane/circulation-backend/api/validators"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/logger"
)

func transactionFilters(r *http.Request) (ledger.TransactionFilters, error) {
	filters := ledger.TransactionFilters{}
	var err error

	if filters.DistributerID, err = validators.ParseQueryUUID(r, "distributer_id"); err != nil {
		return filters, err
	}
	if filters.ActorID, err = validators.ParseQueryUUID(r, "actor_id"); err != nil {
		return filters, err
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		txType, parseErr := enums.ParseTransactionType(raw)
		if parseErr != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error())
		}
		filters.Type = &txType
	}
	if filters.DateFrom, err = validators.ParseQueryDate(r, "date_from"); err != nil {
		return filters, err
	}
	// date_to is inclusive at the API so a single-day window reads
	// naturally; the repository treats the bound as exclusive.
	dateTo, err := validators.ParseQueryDate(r, "date_to")
	if err != nil {
		return filters, err
	}
	if dateTo != nil {
		end := dateTo.Add(24 * time.Hour)
		filters.DateTo = &end
	}

	// Distributer sessions only see their own book.
	if sessionDistributer := middleware.DistributerIDFromContext(r.Context()); sessionDistributer != nil {
		filters.DistributerID = sessionDistributer
		filters.ActorID = nil
	}
	return filters, nil
}

// ListTransactions returns a filtered page of ledger entries, newest first.
func ListTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := transactionFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TransactionSummary returns credit/debit totals and the running balance
// for one distributer.
func TransactionSummary(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := transactionFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DistributerID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "distributer_id required"))
			return
		}

		summary, err := svc.Summarize(r.Context(), *filters.DistributerID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
