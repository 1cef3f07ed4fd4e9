// Package core hosts the todo service: input validation, repository
// delegation, and per-operation metrics, tracing and logging.
package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	todolog "todoapi/internal/log"
	"todoapi/pkg/domain"
)

// Operation names reported to metrics, traces and logs.
const (
	OpCreateTodo = "create_todo"
	OpFindTodo   = "find_todo"
	OpListTodos  = "list_todos"
	OpUpdateTodo = "update_todo"
	OpDeleteTodo = "delete_todo"
	OpCreateUser = "create_user"
)

// Service exposes todo operations on top of a domain.TodoRepository.
type Service struct {
	repo    domain.TodoRepository
	metrics MetricsRecorder
	tracer  Tracer
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetricsRecorder reports every operation to m.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer wraps every operation in a span from t.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger sets the logger used for operation outcomes.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a service over repo.
func NewService(repo domain.TodoRepository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		logger:  todolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the repository the service delegates to.
func (s *Service) Repository() domain.TodoRepository { return s.repo }

// CreateTodo validates in and stores a new, incomplete todo.
func (s *Service) CreateTodo(ctx context.Context, in domain.CreateTodo) (domain.Todo, error) {
	var created domain.Todo
	err := s.run(ctx, OpCreateTodo, func(ctx context.Context) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		created, err = s.repo.Create(ctx, in)
		return err
	})
	return created, err
}

// FindTodo returns the todo with id.
func (s *Service) FindTodo(ctx context.Context, id int64) (domain.Todo, error) {
	var found domain.Todo
	err := s.run(ctx, OpFindTodo, func(ctx context.Context) error {
		var err error
		found, err = s.repo.Find(ctx, id)
		return err
	})
	return found, err
}

// ListTodos returns every todo ordered by id.
func (s *Service) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := s.run(ctx, OpListTodos, func(ctx context.Context) error {
		var err error
		todos, err = s.repo.All(ctx)
		return err
	})
	return todos, err
}

// UpdateTodo merges the present fields of in into the todo with id.
func (s *Service) UpdateTodo(ctx context.Context, id int64, in domain.UpdateTodo) (domain.Todo, error) {
	var updated domain.Todo
	err := s.run(ctx, OpUpdateTodo, func(ctx context.Context) error {
		if err := in.Validate(); err != nil {
			return err
		}
		var err error
		updated, err = s.repo.Update(ctx, id, in)
		return err
	})
	return updated, err
}

// DeleteTodo removes the todo with id.
func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	return s.run(ctx, OpDeleteTodo, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// CreateUser validates in and echoes it back with the fixed stub identifier.
// Nothing is stored.
func (s *Service) CreateUser(ctx context.Context, in domain.CreateUser) (domain.User, error) {
	var user domain.User
	err := s.run(ctx, OpCreateUser, func(context.Context) error {
		if err := in.Validate(); err != nil {
			return err
		}
		user = domain.User{ID: domain.StubUserID, Username: in.Username}
		return nil
	})
	return user, err
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := s.now()
	err := fn(ctx)
	elapsed := s.now().Sub(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, elapsed)

	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "operation completed", "op", op, "duration", elapsed)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		s.logger.InfoContext(ctx, "operation rejected", "op", op, "error", err)
	default:
		s.logger.ErrorContext(ctx, "operation failed", "op", op, "error", err)
	}
	return err
}
