package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("update idea: %w", &NotFoundError{Table: "ideas", ID: "42"})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `ideas "42" not found`)
}

func TestDataSourceError_KeepsStoreMessage(t *testing.T) {
	cause := errors.New("relation \"ideas\" does not exist")
	err := NewDataSourceError("select", "ideas", cause)

	var dsErr *DataSourceError
	assert.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "select", dsErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "relation \"ideas\" does not exist")
	assert.NoError(t, NewDataSourceError("select", "ideas", nil))
}

func TestValidationError_Fields(t *testing.T) {
	verr := &ValidationError{}
	assert.False(t, verr.HasErrors())

	verr.Add("title", "is required")
	verr.Add("status", "must be one of draft published")

	assert.True(t, verr.HasErrors())
	assert.ErrorIs(t, verr, ErrInvalidInput)
	assert.Equal(t, "validation failed: title: is required; status: must be one of draft published", verr.Error())
}
