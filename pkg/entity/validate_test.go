package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
)

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name    string
		doc     entity.Document
		wantErr bool
	}{
		{
			name: "valid payload",
			doc:  entity.Document{"email": "a@example.com", "name": "Ada"},
		},
		{
			name:    "missing name",
			doc:     entity.Document{"email": "a@example.com"},
			wantErr: true,
		},
		{
			name:    "empty email",
			doc:     entity.Document{"email": "", "name": "Ada"},
			wantErr: true,
		},
		{
			name:    "null name",
			doc:     entity.Document{"email": "a@example.com", "name": nil},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.Validate(entity.User, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, []string{"email", "name"}, verr.Fields)
			assert.Equal(t, "Missing required fields: email, name", verr.Message)
		})
	}
}

func TestValidateItemRequiresPrice(t *testing.T) {
	err := entity.Validate(entity.Item, entity.Document{
		"shopId": "s1",
		"name":   "Tea",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Missing required fields: shopId, name, price", verr.Message)

	// Zero is treated as missing, matching the API's historical behavior.
	err = entity.Validate(entity.Item, entity.Document{
		"shopId": "s1",
		"name":   "Tea",
		"price":  float64(0),
	})
	assert.Error(t, err)

	err = entity.Validate(entity.Item, entity.Document{
		"shopId": "s1",
		"name":   "Tea",
		"price":  2.5,
	})
	assert.NoError(t, err)
}

func TestValidateOrder(t *testing.T) {
	valid := entity.Document{
		"userId": "u1",
		"shopId": "s1",
		"items": []any{
			map[string]any{"itemId": "i1", "quantity": 2.0, "price": 3.0},
		},
	}
	assert.NoError(t, entity.Validate(entity.Order, valid))

	t.Run("empty items", func(t *testing.T) {
		err := entity.Validate(entity.Order, entity.Document{
			"userId": "u1",
			"shopId": "s1",
			"items":  []any{},
		})
		var verr *apperrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Missing required fields: userId, shopId, items (must be non-empty array)", verr.Message)
	})

	t.Run("line item missing price", func(t *testing.T) {
		err := entity.Validate(entity.Order, entity.Document{
			"userId": "u1",
			"shopId": "s1",
			"items": []any{
				map[string]any{"itemId": "i1", "quantity": 2.0},
			},
		})
		var verr *apperrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Each item must have itemId, quantity, and price", verr.Message)
	})

	t.Run("items is a string", func(t *testing.T) {
		err := entity.Validate(entity.Order, entity.Document{
			"userId": "u1",
			"shopId": "s1",
			"items":  "not-an-array",
		})
		var verr *apperrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Missing required fields: userId, shopId, items (must be non-empty array)", verr.Message)
	})

	t.Run("items is an object", func(t *testing.T) {
		err := entity.Validate(entity.Order, entity.Document{
			"userId": "u1",
			"shopId": "s1",
			"items":  map[string]any{"itemId": "i1", "quantity": 2.0, "price": 3.0},
		})
		assert.Error(t, err)
	})

	t.Run("line item not an object", func(t *testing.T) {
		err := entity.Validate(entity.Order, entity.Document{
			"userId": "u1",
			"shopId": "s1",
			"items":  []any{"i1"},
		})
		assert.Error(t, err)
	})
}

func TestValidateShop(t *testing.T) {
	assert.NoError(t, entity.Validate(entity.Shop, entity.Document{
		"name":    "Corner",
		"address": "1 Main St",
	}))
	assert.Error(t, entity.Validate(entity.Shop, entity.Document{
		"name": "Corner",
	}))
}
