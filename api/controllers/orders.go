package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperlane/circulation-backend/api/middleware"
	"github.com/paperlane/circulation-backend/api/responses"
	"github.com/paperlane/circulation-backend/api/validators"
	"github.com/paperlane/circulation-backend/internal/orders"
	"github.com/paperlane/circulation-backend/internal/payments"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/logger"
)

type createOrderRequest struct {
	DistributerID uuid.UUID       `json:"distributer_id" validate:"required"`
	Qty           int             `json:"qty" validate:"required,gt=0"`
	Unit          string          `json:"unit" validate:"required"`
	Note          *string         `json:"note,omitempty"`
	Total         decimal.Decimal `json:"total" validate:"required"`
	PaymentMode   string          `json:"payment_mode" validate:"required"`
	AssignedTo    *uuid.UUID      `json:"assigned_to,omitempty"`
}

// CreateOrder places an order for a distributer. The assignee defaults to
// the distributer's account owner; admins may override it.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderInput{
			DistributerID: req.DistributerID,
			Qty:           req.Qty,
			Unit:          req.Unit,
			Note:          req.Note,
			Total:         req.Total,
			PaymentMode:   req.PaymentMode,
			AssignedTo:    req.AssignedTo,
			ActorID:       middleware.ActorIDFromContext(r.Context()),
			ActorAdmin:    middleware.IsAdminFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns one order with its distributer and assignee preloaded.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns a filtered page of orders. Distributer sessions are
// always scoped to their own orders.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.OrderFilters{}
		if filters.DistributerID, err = validators.ParseQueryUUID(r, "distributer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.AssigneeID, err = validators.ParseQueryUUID(r, "assignee_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.Paid, err = validators.ParseQueryBool(r, "paid"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			filters.Status = &status
		}

		if sessionDistributer := middleware.DistributerIDFromContext(r.Context()); sessionDistributer != nil {
			filters.DistributerID = sessionDistributer
		} else if filters.DistributerID == nil && filters.AssigneeID == nil {
			actor := middleware.ActorIDFromContext(r.Context())
			filters.AssigneeID = &actor
		}

		rows, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders": rows,
			"page":   params.Page,
			"limit":  params.PageLimit(),
		})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus applies a status transition.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID: id,
			Status:  req.Status,
			ActorID: middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type reassignOrderRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" validate:"required"`
}

// ReassignOrder moves an order onto a different field user. Admin only.
func ReassignOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req reassignOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Reassign(r.Context(), orders.ReassignInput{
			OrderID:    id,
			AssigneeID: req.AssigneeID,
			ActorID:    middleware.ActorIDFromContext(r.Context()),
			ActorAdmin: middleware.IsAdminFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderPaymentRequest struct {
	Paid        *bool      `json:"paid,omitempty"`
	PaymentMode *string    `json:"payment_mode,omitempty" validate:"omitempty,oneof=cod onlinepayment cash upi bank cheque other"`
	Reference   *string    `json:"reference,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
}

// UpdateOrderPayment applies the supplied payment fields to an order.
// Turning an unpaid order paid appends exactly one ledger credit in the
// same transaction; fields left out of the body keep their stored values.
func UpdateOrderPayment(coordinator payments.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		authActor := middleware.ActorIDFromContext(r.Context())
		order, err := coordinator.UpdatePayment(r.Context(), payments.UpdatePaymentInput{
			OrderID:     id,
			Paid:        req.Paid,
			PaymentMode: req.PaymentMode,
			Reference:   req.Reference,
			ActorID:     req.ActorID,
			AuthActorID: &authActor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
