package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
)

func TestValidator_CheckRules(t *testing.T) {
	v := NewValidator()

	reg, err := resource.Default()
	require.NoError(t, err)
	assert.NoError(t, v.CheckRules(reg.All()))

	bad := &resource.Resource{Name: "things", Fields: []resource.Field{{Name: "name", Rules: "required,shiny"}}}
	err = v.CheckRules([]*resource.Resource{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "name"`)
}

func TestValidator_Field(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		field   resource.Field
		value   any
		message string
	}{
		{name: "no rules", field: resource.Field{Name: "a"}, value: nil},
		{name: "optional nil", field: resource.Field{Name: "a", Rules: "max=3"}, value: nil},
		{name: "required nil", field: resource.Field{Name: "a", Rules: "required"}, value: nil, message: "This field is required"},
		{name: "required empty", field: resource.Field{Name: "a", Rules: "required"}, value: "", message: "This field is required"},
		{name: "too long", field: resource.Field{Name: "a", Rules: "max=3"}, value: "abcd", message: "Must be at most 3 characters long"},
		{name: "one of", field: resource.Field{Name: "a", Rules: "oneof=x y"}, value: "z", message: "Must be one of: x y"},
		{name: "negative price", field: resource.Field{Name: "a", Rules: "gte=0"}, value: -1.0, message: "Must be greater than or equal to 0"},
		{name: "valid email", field: resource.Field{Name: "a", Rules: "email"}, value: "a@b.co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := &model.ValidationError{}
			v.Field(verr, tt.field, tt.value)

			if tt.message == "" {
				assert.False(t, verr.HasErrors())
				return
			}
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}
}
