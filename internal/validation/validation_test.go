package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalogapi/internal/model"
)

func TestStruct_CreateProductRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        model.CreateProductRequest
		wantFields []string
	}{
		{
			name:       "valid",
			req:        model.CreateProductRequest{Name: "Espresso Cup", PriceCents: 1250},
			wantFields: nil,
		},
		{
			name:       "missing name",
			req:        model.CreateProductRequest{PriceCents: 100},
			wantFields: []string{"name"},
		},
		{
			name:       "negative price",
			req:        model.CreateProductRequest{Name: "Cup", PriceCents: -1},
			wantFields: []string{"price_cents"},
		},
		{
			name:       "all violations reported",
			req:        model.CreateProductRequest{PriceCents: -5},
			wantFields: []string{"name", "price_cents"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.req)
			var fields []string
			for _, fe := range errs {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestStruct_Credentials(t *testing.T) {
	errs := Struct(model.Credentials{Username: "ab", Password: "short"})
	assert.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "min", errs[0].Rule)
	assert.Equal(t, "3", errs[0].Param)
	assert.Equal(t, "password", errs[1].Field)

	errs = Struct(model.Credentials{Username: "not-alnum!", Password: "longenough"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "alphanum", errs[0].Rule)

	assert.Nil(t, Struct(model.Credentials{Username: "alice42", Password: "correcthorse"}))
}

func TestStruct_FieldNamesUseJSONTags(t *testing.T) {
	errs := Struct(model.CreateProductRequest{Name: "x", PriceCents: -1})
	if assert.Len(t, errs, 1) {
		// Wire name, not the Go identifier PriceCents.
		assert.Equal(t, "price_cents", errs[0].Field)
		assert.Equal(t, "gte", errs[0].Rule)
	}
}

func TestStruct_UpdateIgnoresUnsetPointers(t *testing.T) {
	assert.Nil(t, Struct(model.UpdateProductRequest{}))

	bad := int64(-10)
	errs := Struct(model.UpdateProductRequest{PriceCents: &bad})
	assert.Len(t, errs, 1)
}
