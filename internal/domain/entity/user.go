package entity

import "time"

// Role rol de un usuario del punto de venta.
type Role string

// Roles válidos para User.
const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleCashier:
		return true
	}
	return false
}

// Permission permiso atómico verificado por el middleware HTTP.
type Permission string

const (
	PermUsersView      Permission = "users.view"
	PermUsersCreate    Permission = "users.create"
	PermUsersEdit      Permission = "users.edit"
	PermUsersDelete    Permission = "users.delete"
	PermProductsView   Permission = "products.view"
	PermProductsCreate Permission = "products.create"
	PermProductsEdit   Permission = "products.edit"
	PermProductsDelete Permission = "products.delete"
	PermSalesView      Permission = "sales.view"
	PermSalesCreate    Permission = "sales.create"
	PermSalesDelete    Permission = "sales.delete"
	PermStockCount     Permission = "stock.count"
	PermStockAdjust    Permission = "stock.adjust"
	PermReportsView    Permission = "reports.view"
	PermSettingsEdit   Permission = "settings.edit"
)

var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
		PermProductsView, PermProductsCreate, PermProductsEdit, PermProductsDelete,
		PermSalesView, PermSalesCreate, PermSalesDelete,
		PermStockCount, PermStockAdjust, PermReportsView, PermSettingsEdit,
	},
	RoleManager: {
		PermUsersView,
		PermProductsView, PermProductsCreate, PermProductsEdit,
		PermSalesView, PermSalesCreate,
		PermStockCount, PermStockAdjust, PermReportsView,
	},
	RoleCashier: {
		PermProductsView,
		PermSalesView, PermSalesCreate,
		PermStockCount,
	},
}

// HasPermission indica si el rol concede el permiso.
func (r Role) HasPermission(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Permissions devuelve la lista de permisos del rol.
func (r Role) Permissions() []Permission {
	return append([]Permission(nil), rolePermissions[r]...)
}

// User representa un usuario del punto de venta.
type User struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
