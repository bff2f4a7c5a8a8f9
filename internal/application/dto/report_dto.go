package dto

import "github.com/shopspring/decimal"

// SalesReportResponse GET /api/reports?type=sales. Previous* compara contra el período anterior de igual duración.
type SalesReportResponse struct {
	TotalSales       decimal.Decimal `json:"totalSales"`
	SalesCount       int             `json:"salesCount"`
	CashSales        decimal.Decimal `json:"cashSales"`
	CardSales        decimal.Decimal `json:"cardSales"`
	MobileMoneySales decimal.Decimal `json:"mobileMoneySales"`
	PreviousTotal    decimal.Decimal `json:"previousTotal"`
	ChangePct        decimal.Decimal `json:"changePct"`
	IsIncrease       bool            `json:"isIncrease"`
}

// InventoryReportResponse GET /api/reports?type=inventory.
type InventoryReportResponse struct {
	ProductCount    int             `json:"productCount"`
	CostValue       decimal.Decimal `json:"costValue"`
	RetailValue     decimal.Decimal `json:"retailValue"`
	PotentialProfit decimal.Decimal `json:"potentialProfit"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
}

// ReorderReportResponse GET /api/reports?type=reorder.
type ReorderReportResponse struct {
	LeadTimeDays    int                          `json:"leadTimeDays"`
	SafetyStockDays int                          `json:"safetyStockDays"`
	LookbackDays    int                          `json:"lookbackDays"`
	Items           []ReplenishmentSuggestionDTO `json:"items"`
}
