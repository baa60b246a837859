package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:out"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Post Stock Out"
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
	// Stock ledger
	{Code: "stock:view", Name: "View Stock Movement"},
	{Code: "stock:in", Name: "Post Stock In"},
	{Code: "stock:out", Name: "Post Stock Out"},
	{Code: "stock:adjust", Name: "Adjust Stock"},
	{Code: "stock:reserve", Name: "Reserve Stock"},
	// Customers & credit
	{Code: "customer:view", Name: "View Customer"},
	{Code: "customer:create", Name: "Create Customer"},
	{Code: "customer:update", Name: "Update Customer"},
	{Code: "credit:view", Name: "View Customer Credit"},
	{Code: "credit:manage", Name: "Manage Customer Credit"},
	{Code: "credit:record_payment", Name: "Record Term Payment"},
	{Code: "payment_term:view", Name: "View Payment Term"},
	// Price levels
	{Code: "price_level:view", Name: "View Price Level"},
	{Code: "price_level:manage", Name: "Manage Price Level"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
