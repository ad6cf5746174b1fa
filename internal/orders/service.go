package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/push"
	"github.com/paperlane/circulation-backend/internal/users"
	"github.com/paperlane/circulation-backend/pkg/db"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequenceGenerator interface {
	Next(ctx context.Context, table, column, prefix string) (string, error)
}

type notifier interface {
	Notify(msg push.Message)
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	Reassign(ctx context.Context, input ReassignInput) (*models.Order, error)
}

type service struct {
	repo        Repository
	distributer distributers.Repository
	user        users.Repository
	seq         sequenceGenerator
	tx          txRunner
	policy      TransitionPolicy
	notify      notifier
	orderPrefix string
}

// Config carries the service dependencies.
type Config struct {
	Repo         Repository
	Distributers distributers.Repository
	Users        users.Repository
	Sequence     sequenceGenerator
	Tx           txRunner
	// Policy defaults to PermissivePolicy when nil.
	Policy   TransitionPolicy
	Notifier notifier
	// OrderPrefix defaults to ORDER.
	OrderPrefix string
}

// NewService builds the order service with the required dependencies.
func NewService(cfg Config) (Service, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cfg.Distributers == nil {
		return nil, fmt.Errorf("distributers repository required")
	}
	if cfg.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if cfg.Sequence == nil {
		return nil, fmt.Errorf("sequence generator required")
	}
	if cfg.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	policy := cfg.Policy
	if policy == nil {
		policy = PermissivePolicy{}
	}
	prefix := cfg.OrderPrefix
	if prefix == "" {
		prefix = "ORDER"
	}
	return &service{
		repo:        cfg.Repo,
		distributer: cfg.Distributers,
		user:        cfg.Users,
		seq:         cfg.Sequence,
		tx:          cfg.Tx,
		policy:      policy,
		notify:      cfg.Notifier,
		orderPrefix: prefix,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.DistributerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer id required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	if input.Unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit required")
	}
	if !input.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
	}
	mode, err := enums.ParseOrderPaymentMode(input.PaymentMode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.AssignedTo != nil && !input.ActorAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may override the assignee")
	}

	distributer, err := s.distributer.FindByID(ctx, input.DistributerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distributer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distributer")
	}

	assignee := distributer.AddedBy
	if input.AssignedTo != nil {
		assignee = *input.AssignedTo
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		handle, err := s.seq.Next(ctx, "orders", "order_id", s.orderPrefix)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate order id")
		}

		order = &models.Order{
			OrderID:       handle,
			DistributerID: distributer.ID,
			Qty:           input.Qty,
			Unit:          input.Unit,
			Note:          input.Note,
			Total:         input.Total,
			Status:        enums.OrderStatusProcessing,
			PaymentMode:   mode,
			AssignedTo:    &assignee,
			COD:           mode.IsCOD(),
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order id already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(push.Message{
			Event:         "order_created",
			Title:         "Order placed",
			Body:          fmt.Sprintf("%s: %d %s", order.OrderID, order.Qty, order.Unit),
			RecipientType: enums.RecipientTypeDistributer,
			RecipientID:   order.DistributerID,
			Data:          map[string]string{"order_id": order.OrderID},
		})
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, error) {
	if filters.DistributerID == nil && filters.AssigneeID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributer or assignee filter required")
	}
	rows, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == target {
		return order, nil
	}
	if !s.policy.Allowed(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("transition %s -> %s not allowed", order.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target

	if s.notify != nil {
		s.notify.Notify(push.Message{
			Event:         "order_status",
			Title:         "Order update",
			Body:          fmt.Sprintf("%s is now %s", order.OrderID, target),
			RecipientType: enums.RecipientTypeDistributer,
			RecipientID:   order.DistributerID,
			Data:          map[string]string{"order_id": order.OrderID, "status": target.String()},
		})
	}
	return order, nil
}

func (s *service) Reassign(ctx context.Context, input ReassignInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.AssigneeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee id required")
	}
	if !input.ActorAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may reassign orders")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	assignee, err := s.user.FindByID(ctx, input.AssigneeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignee")
	}

	if err := s.repo.UpdateAssignment(ctx, order.ID, assignee.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order assignment")
	}
	order.AssignedTo = &assignee.ID

	if s.notify != nil {
		s.notify.Notify(push.Message{
			Event:         "order_assigned",
			Title:         "Order assigned to you",
			Body:          order.OrderID,
			RecipientType: enums.RecipientTypeUser,
			RecipientID:   assignee.ID,
			Data:          map[string]string{"order_id": order.OrderID},
		})
	}
	return order, nil
}
