package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio para que la capa de aplicación y HTTP puedan mapear respuestas.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrCategoryNotFound   = errors.New("categoría no encontrada")
	ErrSaleNotFound       = errors.New("venta no encontrada")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("registro duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInactiveUser       = errors.New("usuario inactivo")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPersistence        = errors.New("fallo de persistencia")
)

// InsufficientStockError detalla el producto y las cantidades al rechazar una salida de stock.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// FieldError mensaje de validación asociado a un campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError acumula errores por campo. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError crea un acumulador vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Add registra un mensaje para un campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err devuelve nil si no hay errores acumulados.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid atajo para un único campo inválido.
func Invalid(field, message string) error {
	v := NewValidationError()
	v.Add(field, message)
	return v.Err()
}

// PersistenceError envuelve un fallo de almacenamiento (timeout, deadlock, conexión, commit).
// La operación completa se revirtió y es seguro reintentarla.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Classified indica si el error ya pertenece a la taxonomía del dominio.
// Los errores no clasificados que salen de una transacción se reportan como PersistenceError.
func Classified(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrProductNotFound, ErrCategoryNotFound, ErrSaleNotFound, ErrUserNotFound,
		ErrInvalidInput, ErrInsufficientStock, ErrDuplicate, ErrConflict, ErrEmailAlreadyExists,
		ErrUnauthorized, ErrForbidden, ErrInactiveUser, ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
