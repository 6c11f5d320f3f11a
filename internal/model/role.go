package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // STORE_OWNER, WAREHOUSE_ADMIN, SHOPKEEPER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleStoreOwner     = "STORE_OWNER"
	RoleWarehouseAdmin = "WAREHOUSE_ADMIN"
	RoleShopkeeper     = "SHOPKEEPER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleStoreOwner,
		Name:        "Store Owner",
		Description: "Full access to the store, including users and reports",
	},
	{
		Code:        RoleWarehouseAdmin,
		Name:        "Warehouse Administrator",
		Description: "Manages products and stock levels",
	},
	{
		Code:        RoleShopkeeper,
		Name:        "Shopkeeper",
		Description: "Runs the register: sales, shifts, and receipts",
	},
}
