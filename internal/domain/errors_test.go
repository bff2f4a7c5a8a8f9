package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientStockError(t *testing.T) {
	var err error = &InsufficientStockError{
		ProductID:   "p-1",
		ProductName: "Kamande",
		Available:   decimal.NewFromInt(2),
		Requested:   decimal.NewFromInt(5),
	}
	wrapped := fmt.Errorf("apply sale: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
	var ise *InsufficientStockError
	require.True(t, errors.As(wrapped, &ise))
	assert.Equal(t, "Kamande", ise.ProductName)
	assert.Contains(t, err.Error(), "disponible 2, solicitado 5")
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.Err())

	v.Add("reason", "es obligatorio")
	v.Add("quantity", "debe ser mayor que cero")
	err := v.Err()
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrInsufficientStock))
	// ordenados por campo
	assert.Equal(t, "quantity", v.Fields[0].Field)
	assert.Equal(t, "validación fallida: quantity: debe ser mayor que cero; reason: es obligatorio", err.Error())

	single := Invalid("type", "tipo desconocido")
	assert.True(t, errors.Is(single, ErrInvalidInput))
}

func TestPersistenceError(t *testing.T) {
	err := &PersistenceError{Op: "apply adjustment", Err: context.DeadlineExceeded}

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "apply adjustment: context deadline exceeded", err.Error())
}

func TestClassified(t *testing.T) {
	assert.True(t, Classified(fmt.Errorf("x: %w", ErrProductNotFound)))
	assert.True(t, Classified(Invalid("a", "b")))
	assert.True(t, Classified(&PersistenceError{Op: "x", Err: errors.New("y")}))
	assert.False(t, Classified(errors.New("connection reset")))
	assert.False(t, Classified(context.Canceled))
}
