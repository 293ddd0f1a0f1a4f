package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDs(t *testing.T) {
	id := uuid.New()

	ids, err := parseUUIDs([]string{id.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)

	_, err = parseUUIDs([]string{id.String(), "nope"})
	assert.ErrorContains(t, err, `invalid uuid "nope"`)
}

func TestParseSorting(t *testing.T) {
	tests := []struct {
		value   string
		want    []shared.FieldSorting
		wantErr bool
	}{
		{"", nil, false},
		{"name", []shared.FieldSorting{{Field: "product.name", Direction: shared.Ascending}}, false},
		{"created_at:desc", []shared.FieldSorting{{Field: "product.created_at", Direction: shared.Descending}}, false},
		{"name:sideways", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			criteria := shared.NewCriteria()
			err := parseSorting(criteria, "product", tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, criteria.Sortings)
		})
	}
}

func TestShopFlags_Context(t *testing.T) {
	f := newShopFlags("products")
	require.NoError(t, f.fs.Parse([]string{"-shop", "not-a-uuid"}))

	_, _, err := f.context(t.Context(), &application{})
	assert.ErrorContains(t, err, "invalid -shop")

	f = newShopFlags("products")
	require.NoError(t, f.fs.Parse([]string{"-shop", uuid.NewString(), "-group", "bad"}))
	_, _, err = f.context(t.Context(), &application{})
	assert.ErrorContains(t, err, "invalid -group")
}
