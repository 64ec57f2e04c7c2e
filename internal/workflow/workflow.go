// Package workflow runs the multi-step mutations of the meal planner against
// the store and keeps the in-memory mirrors in step. Steps are committed one
// at a time with no rollback; a failed step is logged and returned, and the
// mirror is left as it was before that step.
package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mise/internal/db"
	"mise/internal/store"
)

// DefaultTimeout bounds a single store call started from the UI.
const DefaultTimeout = 10 * time.Second

// Service carries the store and logger shared by every workflow.
type Service struct {
	Store   store.Store
	Log     *zap.Logger
	Timeout time.Duration
	Now     func() time.Time
}

// New returns a Service. A nil logger discards output.
func New(s store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: s, Log: log, Timeout: DefaultTimeout, Now: time.Now}
}

// Context returns a context bounded by the service timeout.
func (s *Service) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Timeout)
}

func (s *Service) fail(op, path, id string, err error) error {
	s.Log.Error(op+" failed",
		zap.String("collection", path),
		zap.String("id", id),
		zap.Error(err))
	return err
}

type validator interface {
	Validate() error
}

func validate(v any) error {
	if val, ok := v.(validator); ok {
		return val.Validate()
	}
	return nil
}

// Load replaces the mirror with the stored collection.
func Load[T any](ctx context.Context, s *Service, c db.Collection[T], m *Mirror[T]) error {
	items, err := c.List(ctx, s.Store)
	if err != nil {
		return s.fail("load", c.Path, "", fmt.Errorf("failed to load %s: %w", c.Path, err))
	}
	m.Reset(items)
	return nil
}

// Create stores v and appends it, with its new id, to the mirror.
func Create[T any](ctx context.Context, s *Service, c db.Collection[T], m *Mirror[T], v T) (T, error) {
	if err := validate(v); err != nil {
		return v, err
	}
	created, err := c.Insert(ctx, s.Store, v)
	if err != nil {
		return v, s.fail("create", c.Path, "", fmt.Errorf("failed to create %s record: %w", c.Path, err))
	}
	m.Put(created)
	s.Log.Debug("record created", zap.String("collection", c.Path), zap.String("id", c.ID(created)))
	return created, nil
}

// Update overwrites the stored record with v and replaces it in the mirror.
func Update[T any](ctx context.Context, s *Service, c db.Collection[T], m *Mirror[T], v T) error {
	if err := validate(v); err != nil {
		return err
	}
	id := c.ID(v)
	if err := c.Update(ctx, s.Store, v); err != nil {
		return s.fail("update", c.Path, id, fmt.Errorf("failed to update %s record %s: %w", c.Path, id, err))
	}
	m.Put(v)
	return nil
}

// Delete removes the record and drops it from the mirror. Confirmation is
// the caller's job.
func Delete[T any](ctx context.Context, s *Service, c db.Collection[T], m *Mirror[T], id string) error {
	if err := c.Delete(ctx, s.Store, id); err != nil {
		return s.fail("delete", c.Path, id, fmt.Errorf("failed to delete %s record %s: %w", c.Path, id, err))
	}
	m.Remove(id)
	return nil
}

// Restore writes v back under its own id, as undo of a delete does.
func Restore[T any](ctx context.Context, s *Service, c db.Collection[T], m *Mirror[T], v T) error {
	id := c.ID(v)
	if err := c.Restore(ctx, s.Store, v); err != nil {
		return s.fail("restore", c.Path, id, fmt.Errorf("failed to restore %s record %s: %w", c.Path, id, err))
	}
	m.Put(v)
	return nil
}
