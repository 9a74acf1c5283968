package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("product with id 7 not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product with id 7 not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading product: %w", NewNotFoundError("product not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	details := []ValidationDetail{
		{Field: "customer_email", Message: "Invalid email address."},
		{Field: "customer_phone", Message: "Phone number must be at least 8 digits."},
	}

	err := NewValidationError("Invalid email address.", details...)

	assert.Equal(t, "Invalid email address.", err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "customer_email", ve.Details[0].Field)
}

func TestLocalizedError_WrapsCause(t *testing.T) {
	cause := NewLocalizedError("No valid shipping method available for this order.")
	err := NewLocalizedErrorf(cause, "Unable to create order: %s", cause.Error())

	assert.Equal(t, "Unable to create order: No valid shipping method available for this order.", err.Error())
	assert.True(t, errors.Is(err, cause))

	le, ok := IsLocalizedError(fmt.Errorf("handler: %w", err))
	assert.True(t, ok)
	assert.Equal(t, err.Message, le.Message)
}

func TestDeadlockError_IsDeadlockError(t *testing.T) {
	_, ok := IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewConflictError("quote already converted"))
	assert.False(t, ok)
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := fmt.Errorf("placing order: %w", NewConflictError("quote 7 is no longer active"))

	conflictErr, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "quote 7 is no longer active", conflictErr.Error())

	_, ok = IsDeadlockError(err)
	assert.False(t, ok)
}
