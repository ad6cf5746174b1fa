package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperlane/circulation-backend/api/middleware"
	"github.com/paperlane/circulation-backend/api/responses"
	"github.com/paperlane/circulation-backend/api/validators"
	"github.com/paperlane/circulation-backend/internal/dispatches"
	"github.com/paperlane/circulation-backend/pkg/logger"
)

type recordDispatchRequest struct {
	DistributerID uuid.UUID       `json:"distributer_id" validate:"required"`
	Qty           int             `json:"qty" validate:"required,gt=0"`
	Unit          string          `json:"unit" validate:"required"`
	TotalPrice    decimal.Decimal `json:"total_price" validate:"required"`
	Mode          string          `json:"mode" validate:"required,oneof=credit cash"`
}

// RecordDispatch books a counter sale and its ledger debit. The seller is
// always the authenticated actor.
func RecordDispatch(svc dispatches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordDispatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dispatch, err := svc.Record(r.Context(), dispatches.RecordDispatchInput{
			DistributerID: req.DistributerID,
			Qty:           req.Qty,
			Unit:          req.Unit,
			TotalPrice:    req.TotalPrice,
			Mode:          req.Mode,
			SoldBy:        middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dispatch)
	}
}

func dispatchFilters(r *http.Request) (dispatches.DispatchFilters, error) {
	filters := dispatches.DispatchFilters{}
	var err error

	if filters.DistributerID, err = validators.ParseQueryUUID(r, "distributer_id"); err != nil {
		return filters, err
	}
	if filters.SellerID, err = validators.ParseQueryUUID(r, "seller_id"); err != nil {
		return filters, err
	}
	// Without an explicit scope the listing covers the caller's own sales.
	if filters.DistributerID == nil && filters.SellerID == nil {
		actor := middleware.ActorIDFromContext(r.Context())
		filters.SellerID = &actor
	}
	return filters, nil
}

// ListDispatches returns a filtered page of dispatches, newest first.
func ListDispatches(svc dispatches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := dispatchFilters(r)
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

// ListTodayDispatches returns the current day's dispatches for the caller
// or the requested scope.
func ListTodayDispatches(svc dispatches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := dispatchFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListToday(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
