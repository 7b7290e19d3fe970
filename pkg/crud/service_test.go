package crud_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/shopfront/pkg/crud"
	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
	"github.com/shopfront/shopfront/pkg/store/memstore"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T, desc entity.Descriptor) *crud.Service {
	t.Helper()
	var n int
	return crud.New(desc, memstore.New(), zap.NewNop(),
		crud.WithClock(func() time.Time { return testNow }),
		crud.WithIDSource(func() string {
			n++
			return fmt.Sprintf("%s-%d", desc.Kind, n)
		}),
	)
}

func TestCreateItemDefaultsAndTimestamps(t *testing.T) {
	svc := newService(t, entity.Item)

	doc, err := svc.Create(context.Background(), entity.Document{
		"shopId": "s1",
		"name":   "Tea",
		"price":  2.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "item-1", doc.ID())
	assert.Equal(t, true, doc["isAvailable"])
	assert.Equal(t, entity.Timestamp(testNow), doc["createdAt"])
	assert.Equal(t, doc["createdAt"], doc["updatedAt"])
}

func TestCreateOrderComputesTotal(t *testing.T) {
	svc := newService(t, entity.Order)

	doc, err := svc.Create(context.Background(), entity.Document{
		"userId": "u1",
		"shopId": "s1",
		"items": []any{
			map[string]any{"itemId": "i1", "quantity": 2.0, "price": 3.0},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 6.0, doc["totalAmount"].(float64), 1e-9)
	assert.Equal(t, "pending", doc["status"])
}

func TestCreateValidationFailureWritesNothing(t *testing.T) {
	svc := newService(t, entity.User)
	ctx := context.Background()

	_, err := svc.Create(ctx, entity.Document{"email": "a@example.com"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Missing required fields: email, name", verr.Message)

	docs, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCreateDuplicateUserEmail(t *testing.T) {
	svc := newService(t, entity.User)
	ctx := context.Background()

	first, err := svc.Create(ctx, entity.Document{"email": "a@example.com", "name": "Ada"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, entity.Document{"email": "a@example.com", "name": "Impostor"})
	var cerr *apperrors.ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", cerr.Field)
	assert.Equal(t, first.ID(), entity.Document(cerr.Existing).ID())
}

func TestUpdateMergesAndProtects(t *testing.T) {
	svc := newService(t, entity.Shop)
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.Document{"name": "Old", "address": "1 Main St"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID(), entity.Document{
		"id":        "other",
		"name":      "New",
		"createdAt": "2099-01-01T00:00:00.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, "New", updated["name"])
	assert.Equal(t, "1 Main St", updated["address"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])

	stored, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "New", stored["name"])
}

func TestUpdateMissingDocument(t *testing.T) {
	svc := newService(t, entity.Shop)
	_, err := svc.Update(context.Background(), "nope", entity.Document{"name": "New"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteMissingDocument(t *testing.T) {
	svc := newService(t, entity.Item)
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.Document{"shopId": "s1", "name": "Tea", "price": 2.5})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID()))

	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, created.ID())))
}

func TestListAppliesFilters(t *testing.T) {
	svc := newService(t, entity.Item)
	ctx := context.Background()

	for _, payload := range []entity.Document{
		{"shopId": "s1", "name": "Tea", "price": 2.5},
		{"shopId": "s1", "name": "Cup", "price": 4.0, "isAvailable": false},
		{"shopId": "s2", "name": "Pot", "price": 9.0},
	} {
		_, err := svc.Create(ctx, payload)
		require.NoError(t, err)
	}

	docs, err := svc.List(ctx, map[string]string{"shopId": "s1", "isAvailable": "true"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Tea", docs[0]["name"])

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestConcurrentUpdatesLastWriterWins(t *testing.T) {
	svc := newService(t, entity.Shop)
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.Document{"name": "Old", "address": "1 Main St"})
	require.NoError(t, err)

	// Two racing read-merge-write cycles; whichever upsert lands last wins
	// and the earlier write is lost. This is the documented model, not a bug.
	_, err = svc.Update(ctx, created.ID(), entity.Document{"name": "A"})
	require.NoError(t, err)
	final, err := svc.Update(ctx, created.ID(), entity.Document{"address": "2 Side St"})
	require.NoError(t, err)

	assert.Equal(t, "A", final["name"])
	assert.Equal(t, "2 Side St", final["address"])
}
