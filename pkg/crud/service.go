// Package crud implements the generic CRUD service shared by all storefront
// entities. One Service instance serves one entity kind; everything
// kind-specific comes from the entity descriptor.
package crud

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
	"github.com/shopfront/shopfront/pkg/query"
	"github.com/shopfront/shopfront/pkg/store"
)

// Service handles create, list, get, update and delete for one entity kind.
// It owns no state beyond its collaborators; every request is independent.
type Service struct {
	desc  entity.Descriptor
	store store.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source, for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDSource overrides the identifier generator.
func WithIDSource(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a service for one entity kind over the given store.
func New(desc entity.Descriptor, st store.Store, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		desc:  desc,
		store: st,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Descriptor returns the entity descriptor this service is configured with.
func (s *Service) Descriptor() entity.Descriptor {
	return s.desc
}

func (s *Service) container() store.Container {
	return s.store.Container(s.desc.Container)
}

// Create validates the payload, enforces the entity's uniqueness constraint,
// assigns identity and timestamps, and inserts the document. Nothing is
// written when validation or the uniqueness check fails.
func (s *Service) Create(ctx context.Context, payload entity.Document) (entity.Document, error) {
	if err := entity.Validate(s.desc, payload); err != nil {
		return nil, err
	}

	if s.desc.Unique != "" {
		spec := query.ByField(s.desc.Container, s.desc.Unique, payload[s.desc.Unique])
		existing, err := s.container().Query(ctx, spec)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, &apperrors.ConflictError{
				Kind:     s.desc.Kind,
				Field:    s.desc.Unique,
				Existing: existing[0],
			}
		}
	}

	doc := entity.PrepareForCreate(s.desc, payload, s.now(), s.newID)
	created, err := s.container().Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.log.Info("document created",
		zap.String("kind", s.desc.Kind),
		zap.String("id", created.ID()))
	return created, nil
}

// List queries the container with the entity's recognized filters applied,
// newest first.
func (s *Service) List(ctx context.Context, filters map[string]string) ([]entity.Document, error) {
	spec := query.BuildListQuery(s.desc, filters)
	return s.container().Query(ctx, spec)
}

// Get fetches one document by id.
func (s *Service) Get(ctx context.Context, id string) (entity.Document, error) {
	return s.container().Read(ctx, id)
}

// Update reads the current document, merges the partial payload onto it with
// the entity's protection rules, and upserts the result. The read and the
// upsert are not atomic; concurrent updates race with last-writer-wins.
func (s *Service) Update(ctx context.Context, id string, partial entity.Document) (entity.Document, error) {
	existing, err := s.container().Read(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := entity.ResolveUpdate(s.desc, existing, partial, s.now())
	updated, err := s.container().Upsert(ctx, merged)
	if err != nil {
		return nil, err
	}
	s.log.Info("document updated",
		zap.String("kind", s.desc.Kind),
		zap.String("id", id))
	return updated, nil
}

// Delete removes one document by id. There is no soft delete and no cascade;
// deleting a shop leaves its items in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.container().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("document deleted",
		zap.String("kind", s.desc.Kind),
		zap.String("id", id))
	return nil
}
