package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType tipo de ajuste manual de stock.
type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "ADJUSTMENT_ADD"
	AdjustmentRemove AdjustmentType = "ADJUSTMENT_REMOVE"
	AdjustmentDamage AdjustmentType = "DAMAGE"
	AdjustmentTheft  AdjustmentType = "THEFT"
	AdjustmentExpiry AdjustmentType = "EXPIRY"
	// CORRECTION y SAMPLE suman stock: se conserva la clasificación original
	// hasta que el negocio defina su signo.
	AdjustmentCorrection AdjustmentType = "CORRECTION"
	AdjustmentReturn     AdjustmentType = "RETURN"
	AdjustmentSample     AdjustmentType = "SAMPLE"
)

// AdjustmentTypes todos los tipos admitidos, en orden de presentación.
var AdjustmentTypes = []AdjustmentType{
	AdjustmentAdd, AdjustmentRemove, AdjustmentDamage, AdjustmentTheft,
	AdjustmentExpiry, AdjustmentCorrection, AdjustmentReturn, AdjustmentSample,
}

// Valid indica si el tipo es uno de los ocho admitidos.
func (t AdjustmentType) Valid() bool {
	for _, known := range AdjustmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsRemoval indica si el ajuste descuenta stock.
func (t AdjustmentType) IsRemoval() bool {
	switch t {
	case AdjustmentRemove, AdjustmentDamage, AdjustmentTheft, AdjustmentExpiry:
		return true
	}
	return false
}

// StockAdjustment registro de auditoría de un ajuste manual (append-only).
type StockAdjustment struct {
	ID            string
	ProductID     string
	ProductName   string // solo lectura (join)
	UserID        string
	UserName      string // solo lectura (join)
	Type          AdjustmentType
	Quantity      decimal.Decimal // magnitud positiva
	Reason        string
	Notes         string
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	CreatedAt     time.Time
}
