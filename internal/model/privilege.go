package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Sale"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	// Shift management
	{Code: "shift:view", Name: "View Shift"},
	{Code: "shift:open", Name: "Open Shift"},
	{Code: "shift:close", Name: "Close Shift"},
	// Reports
	{Code: "report:view", Name: "View Report"},
	{Code: "report:export", Name: "Export Report"},
}

// ShopkeeperPrivileges are the codes granted to the SHOPKEEPER role:
// everything needed to run the register, nothing administrative.
var ShopkeeperPrivileges = []string{
	"product:view",
	"sale:view",
	"sale:create",
	"shift:view",
	"shift:open",
	"shift:close",
}

// WarehouseAdminPrivileges extend the shopkeeper set with product and
// report management.
var WarehouseAdminPrivileges = append([]string{
	"product:create",
	"product:update",
	"product:delete",
	"report:view",
	"report:export",
}, ShopkeeperPrivileges...)
