package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/events"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/domain"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/users-service/internal/repository"
)

var ErrInvalidUser = errors.New("name and email are required")

// Publisher is the event sink for user snapshots. It is intentionally
// narrow so the fire-and-forget publish can later be replaced by an
// outbox without touching this service.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type UserSvc struct {
	repo *repository.UserRepo
	pub  Publisher
	log  *zap.Logger
}

func NewUserSvc(r *repository.UserRepo, pub Publisher, log *zap.Logger) *UserSvc {
	return &UserSvc{repo: r, pub: pub, log: log}
}

func (s *UserSvc) Create(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, ErrInvalidUser
	}

	u := &domain.User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.publish(ctx, events.RKUserCreated, u)
	return u, nil
}

func (s *UserSvc) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.ByID(ctx, id)
}

func (s *UserSvc) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserSvc) Update(ctx context.Context, id, name, email string) (*domain.User, error) {
	fields := map[string]any{}
	if name = strings.TrimSpace(name); name != "" {
		fields["name"] = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		fields["email"] = email
	}
	if len(fields) == 0 {
		return nil, ErrInvalidUser
	}
	u, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RKUserUpdated, u)
	return u, nil
}

// publish is best-effort: the write already committed, so a broker
// failure is logged and swallowed.
func (s *UserSvc) publish(ctx context.Context, key string, u *domain.User) {
	if s.pub == nil {
		s.log.Warn("publisher not connected, skipping event", zap.String("key", key))
		return
	}
	snap := events.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
	if err := s.pub.PublishJSON(ctx, key, snap); err != nil {
		s.log.Error("publish event failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Info("published event", zap.String("key", key), zap.String("user_id", u.ID))
}
