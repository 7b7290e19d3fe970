// Package memstore provides an in-memory document store. It backs the test
// suites and the -memory mode of the local server, where running DynamoDB
// Local is not worth the setup.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
	"github.com/shopfront/shopfront/pkg/query"
	"github.com/shopfront/shopfront/pkg/store"
)

// Store is a concurrency-safe in-memory store.Store.
type Store struct {
	mu         sync.Mutex
	containers map[string]*container
}

// New creates an empty in-memory store. Containers spring into existence on
// first use.
func New() *Store {
	return &Store{containers: make(map[string]*container)}
}

// Container implements store.Store.
func (s *Store) Container(name string) store.Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.containers[name]
	if !ok {
		c = &container{name: name, docs: make(map[string]entity.Document)}
		s.containers[name] = c
	}
	return c
}

type container struct {
	name string
	mu   sync.RWMutex
	docs map[string]entity.Document
}

func (c *container) Create(_ context.Context, doc entity.Document) (entity.Document, error) {
	id := doc.ID()
	if id == "" {
		return nil, apperrors.NewStoreError("create", c.name, fmt.Errorf("document has no id"))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return nil, apperrors.ErrConflict
	}
	c.docs[id] = doc.Clone()
	return doc.Clone(), nil
}

func (c *container) Read(_ context.Context, id string) (entity.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return doc.Clone(), nil
}

func (c *container) Upsert(_ context.Context, doc entity.Document) (entity.Document, error) {
	id := doc.ID()
	if id == "" {
		return nil, apperrors.NewStoreError("upsert", c.name, fmt.Errorf("document has no id"))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = doc.Clone()
	return doc.Clone(), nil
}

func (c *container) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

// Query matches every binding by equality and sorts by the spec's sort
// field. All storefront list queries are conjunctive equality filters, so
// interpreting the bindings directly is equivalent to the statement text.
func (c *container) Query(_ context.Context, spec query.Spec) ([]entity.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		if matches(doc, spec.Params) {
			out = append(out, doc.Clone())
		}
	}

	if spec.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a := fmt.Sprint(out[i][spec.SortField])
			b := fmt.Sprint(out[j][spec.SortField])
			if spec.SortDesc {
				return a > b
			}
			return a < b
		})
	}
	return out, nil
}

func matches(doc entity.Document, params []query.Param) bool {
	for _, p := range params {
		if doc[p.Name] != p.Value {
			return false
		}
	}
	return true
}
