package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/events"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/domain"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/repository"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/validator"
)

var (
	// ErrInvalidOrder covers malformed creation requests; the wrapped
	// message carries the concrete reason.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrUserRejected: the users service confirmed the user is absent.
	ErrUserRejected = errors.New("invalid user")
	// ErrUserUnverifiable: the users service is unreachable and the user
	// is unknown to the event cache; the request is retry-worthy.
	ErrUserUnverifiable = errors.New("users-service unavailable and user not found in cache")
	// ErrAlreadyCancelled guards the one-way cancel transition.
	ErrAlreadyCancelled = errors.New("order already cancelled")
)

type Store interface {
	Create(ctx context.Context, o *domain.Order) error
	ByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus must fail with repository.ErrStatusConflict when the
	// order is already in the target status.
	UpdateStatus(ctx context.Context, id, to string) (*domain.Order, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type ReferenceValidator interface {
	Validate(ctx context.Context, userID string) validator.Decision
}

type OrderSvc struct {
	repo Store
	val  ReferenceValidator
	pub  Publisher
	log  *zap.Logger
}

func NewOrderSvc(repo Store, val ReferenceValidator, pub Publisher, log *zap.Logger) *OrderSvc {
	return &OrderSvc{repo: repo, val: val, pub: pub, log: log}
}

// Create runs the admission pipeline: shape check, reference validation,
// persistence, then best-effort event publication. The shape check comes
// first so a bad request causes no I/O at all.
func (s *OrderSvc) Create(ctx context.Context, userID string, items []domain.Item, total float64) (*domain.Order, error) {
	if err := checkShape(userID, items, total); err != nil {
		return nil, err
	}

	switch s.val.Validate(ctx, userID) {
	case validator.Rejected:
		return nil, ErrUserRejected
	case validator.Indeterminate:
		return nil, ErrUserUnverifiable
	}

	o := &domain.Order{
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: domain.StatusCreated,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, events.RKOrderCreated, o)
	return o, nil
}

func checkShape(userID string, items []domain.Item, total float64) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: items must not be empty", ErrInvalidOrder)
	}
	for _, it := range items {
		if it.SKU == "" || it.Qty <= 0 {
			return fmt.Errorf("%w: each item needs a sku and a positive qty", ErrInvalidOrder)
		}
	}
	if total < 0 {
		return fmt.Errorf("%w: total must not be negative", ErrInvalidOrder)
	}
	return nil
}

// Cancel is one-way: created -> cancelled. The transition is enforced by
// the store's conditional update, so concurrent cancels of the same order
// cannot both succeed (and the event cannot be published twice).
func (s *OrderSvc) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.UpdateStatus(ctx, id, domain.StatusCancelled)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}
	s.publish(ctx, events.RKOrderCancelled, o)
	return o, nil
}

func (s *OrderSvc) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.ByID(ctx, id)
}

func (s *OrderSvc) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// publish never fails the caller: the order is already committed.
func (s *OrderSvc) publish(ctx context.Context, key string, o *domain.Order) {
	if s.pub == nil {
		s.log.Warn("publisher not connected, skipping event", zap.String("key", key))
		return
	}
	items := make([]events.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, events.OrderItem{SKU: it.SKU, Qty: it.Qty})
	}
	snap := events.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
	if err := s.pub.PublishJSON(ctx, key, snap); err != nil {
		s.log.Error("publish event failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Info("published event", zap.String("key", key), zap.String("order_id", o.ID))
}
