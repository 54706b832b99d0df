package model

// Privilege represents a permission that can be assigned to staff users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "category:manage", Name: "Manage Categories"},
	// Order management
	{Code: "order:view", Name: "View Order"},
	{Code: "order:update", Name: "Update Order Status"},
	{Code: "order:cancel", Name: "Cancel Order"},
	// Promotions
	{Code: "coupon:manage", Name: "Manage Coupons"},
	// Reviews
	{Code: "review:moderate", Name: "Moderate Reviews"},
	// Settings
	{Code: "settings:update", Name: "Update Site Settings"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
