package validation

import (
	"errors"
	"testing"

	"stockmaster/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"itemName" validate:"required"`
	Email string  `json:"email" validate:"omitempty,email"`
	Qty   int     `json:"quantity" validate:"gte=0"`
	Role  string  `json:"role" validate:"oneof=Admin Manager Staff"`
	Ratio float64 `validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		field  string
		reason string
	}{
		{"missing name", sample{Role: "Staff"}, "itemName", "is required"},
		{"negative qty", sample{Name: "x", Role: "Staff", Qty: -1}, "quantity", "must be >= 0"},
		{"bad email", sample{Name: "x", Role: "Staff", Email: "nope"}, "email", "must be a valid email address"},
		{"bad role", sample{Name: "x", Role: "Owner"}, "role", "must be one of: Admin, Manager, Staff"},
		{"untagged field keeps go name", sample{Name: "x", Role: "Staff", Ratio: -2}, "Ratio", "must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			require.Error(t, err)

			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "Tea", Role: "Admin", Email: "a@b.co"}))
}
