package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdjustmentType_Classification(t *testing.T) {
	removals := map[AdjustmentType]bool{
		AdjustmentRemove: true, AdjustmentDamage: true, AdjustmentTheft: true, AdjustmentExpiry: true,
	}
	for _, typ := range AdjustmentTypes {
		assert.True(t, typ.Valid(), typ)
		assert.Equal(t, removals[typ], typ.IsRemoval(), typ)
	}
	assert.False(t, AdjustmentSample.IsRemoval())
	assert.False(t, AdjustmentCorrection.IsRemoval())
	assert.False(t, AdjustmentType("LOST").Valid())
}

func TestRole_Permissions(t *testing.T) {
	assert.True(t, RoleOwner.HasPermission(PermSettingsEdit))
	assert.True(t, RoleOwner.HasPermission(PermSalesDelete))

	assert.True(t, RoleManager.HasPermission(PermStockAdjust))
	assert.False(t, RoleManager.HasPermission(PermUsersCreate))
	assert.False(t, RoleManager.HasPermission(PermProductsDelete))

	assert.True(t, RoleCashier.HasPermission(PermSalesCreate))
	assert.True(t, RoleCashier.HasPermission(PermStockCount))
	assert.False(t, RoleCashier.HasPermission(PermStockAdjust))
	assert.False(t, RoleCashier.HasPermission(PermReportsView))

	assert.False(t, Role("ADMIN").Valid())
	assert.False(t, Role("ADMIN").HasPermission(PermProductsView))
	assert.Len(t, RoleCashier.Permissions(), 4)
}

func TestProduct_StockFlags(t *testing.T) {
	p := &Product{
		CurrentStock: decimal.NewFromInt(2),
		ReorderLevel: decimal.NewFromInt(2),
		CostPrice:    decimal.NewFromInt(170),
		SellingPrice: decimal.NewFromInt(200),
	}
	assert.True(t, p.IsLowStock())
	assert.False(t, p.IsOutOfStock())
	assert.False(t, p.SellsBelowCost())

	p.CurrentStock = decimal.Zero
	p.SellingPrice = decimal.NewFromInt(150)
	assert.True(t, p.IsOutOfStock())
	assert.True(t, p.SellsBelowCost())
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMobileMoney.Valid())
	assert.False(t, PaymentMethod("CHEQUE").Valid())
}
