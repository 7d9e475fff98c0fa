package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		TenantID:    d.TenantID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		ParentCode:  d.ParentCode,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: auditRow(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		TenantID:    m.TenantID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		ParentCode:  m.ParentCode,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: auditFromRow(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
