package models

// Account is a row of the accounts table.
type Account struct {
	TenantID    string  `db:"tenant_id"`
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	AccountType string  `db:"account_type"`
	ParentCode  *string `db:"parent_code"` // Nullable
	Description string  `db:"description"`
	IsActive    bool    `db:"is_active"`
	AuditFields
}
