package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
type CreateAdjustmentRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=ADJUSTMENT_ADD ADJUSTMENT_REMOVE DAMAGE THEFT EXPIRY CORRECTION RETURN SAMPLE"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason" validate:"required,max=500"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

// AdjustmentListQuery filtros de GET /api/inventory/adjustments.
type AdjustmentListQuery struct {
	ProductID string `query:"productId"`
	Type      string `query:"type"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Page      int    `query:"page" validate:"min=0"`
	Limit     int    `query:"limit" validate:"min=0,max=1000"`
}

// AdjustmentResponse registro de ajuste.
type AdjustmentResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName,omitempty"`
	UserID        string          `json:"userId"`
	UserName      string          `json:"userName,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	Notes         string          `json:"notes,omitempty"`
	PreviousStock decimal.Decimal `json:"previousStock"`
	NewStock      decimal.Decimal `json:"newStock"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AdjustmentListResponse listado {data, pagination}.
type AdjustmentListResponse struct {
	Data       []AdjustmentResponse `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// StockCountEntryRequest conteo de un producto.
type StockCountEntryRequest struct {
	ProductID     string          `json:"productId" validate:"required"`
	ExpectedStock decimal.Decimal `json:"expectedStock"`
	ActualStock   decimal.Decimal `json:"actualStock"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// StockCountRequest body para POST /api/stock-count.
type StockCountRequest struct {
	CountDate *time.Time              `json:"countDate"`
	Counts    []StockCountEntryRequest `json:"counts" validate:"required,min=1,dive"`
}

// StockCountResponse registro de conteo.
type StockCountResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName,omitempty"`
	UserID        string          `json:"userId"`
	CountDate     time.Time       `json:"countDate"`
	ExpectedStock decimal.Decimal `json:"expectedStock"`
	ActualStock   decimal.Decimal `json:"actualStock"`
	Variance      decimal.Decimal `json:"variance"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CountSheetEntry fila de la hoja de conteo del día.
type CountSheetEntry struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	OpeningStock  decimal.Decimal `json:"openingStock"`
	RecordedSales decimal.Decimal `json:"recordedSales"`
	ExpectedStock decimal.Decimal `json:"expectedStock"`
}

// VarianceResponse varianza de un producto contado.
type VarianceResponse struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	ExpectedStock    decimal.Decimal `json:"expectedStock"`
	ActualStock      decimal.Decimal `json:"actualStock"`
	Variance         decimal.Decimal `json:"variance"`
	UnrecordedUnits  decimal.Decimal `json:"unrecordedUnits"`
	EstimatedRevenue decimal.Decimal `json:"estimatedRevenue"`
}

// DailySummaryResponse ventas registradas frente a ventas estimadas no registradas.
type DailySummaryResponse struct {
	Date                          string          `json:"date"`
	RecordedSales                 decimal.Decimal `json:"recordedSales"`
	RecordedSalesCount            int             `json:"recordedSalesCount"`
	UnrecordedRevenue             decimal.Decimal `json:"unrecordedRevenue"`
	EstimatedUnrecordedSalesCount int             `json:"estimatedUnrecordedSalesCount"`
	TotalEstimatedRevenue         decimal.Decimal `json:"totalEstimatedRevenue"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su nivel de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"productId"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"productName"`
	CurrentStock       decimal.Decimal `json:"currentStock"`
	ReorderLevel       decimal.Decimal `json:"reorderLevel"`
	AvgDailySales      decimal.Decimal `json:"avgDailySales"`
	SuggestedOrderQty  decimal.Decimal `json:"suggestedOrderQty"` // ceil(avg × (lead + safety))
	UnitCost           decimal.Decimal `json:"unitCost"`
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"`
	GrossMarginPct     decimal.Decimal `json:"grossMarginPct"`
	UnitsSold          decimal.Decimal `json:"unitsSold"` // en la ventana de análisis
	Priority           int             `json:"priority"`  // 1 = más urgente
}
