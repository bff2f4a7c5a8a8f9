package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCount registro de un conteo físico. Aplicarlo fija CurrentStock = ActualQty.
type StockCount struct {
	ID           string
	ProductID    string
	ProductName  string          // solo lectura (join)
	SellingPrice decimal.Decimal // solo lectura (join), para estimar ventas no registradas
	UserID       string
	CountDate    time.Time
	ExpectedQty  decimal.Decimal
	ActualQty    decimal.Decimal
	Variance     decimal.Decimal // ActualQty - ExpectedQty
	Notes        string
	CreatedAt    time.Time
}
