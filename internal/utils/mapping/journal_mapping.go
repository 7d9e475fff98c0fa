package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:       d.EntryID,
		TenantID:      d.TenantID,
		EntryNumber:   d.EntryNumber,
		EntryDate:     d.EntryDate,
		Description:   d.Description,
		Reference:     d.Reference,
		Source:        string(d.Source),
		SourceEventID: d.SourceEventID,
		Status:        string(d.Status),
		TotalDebit:    d.TotalDebit,
		TotalCredit:   d.TotalCredit,
		PostedBy:      d.PostedBy,
		PostedAt:      d.PostedAt,
		VoidedBy:      d.VoidedBy,
		VoidedAt:      d.VoidedAt,
		ReversalOfID:  d.ReversalOfID,
		ReversedByID:  d.ReversedByID,
		Version:       d.Version,
		AuditFields:   auditRow(d.AuditFields),
	}
	if d.SourceEventType != nil {
		et := string(*d.SourceEventType)
		m.SourceEventType = &et
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		EntryNumber:   m.EntryNumber,
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		Reference:     m.Reference,
		Source:        domain.JournalSource(m.Source),
		SourceEventID: m.SourceEventID,
		Status:        domain.JournalStatus(m.Status),
		TotalDebit:    m.TotalDebit,
		TotalCredit:   m.TotalCredit,
		PostedBy:      m.PostedBy,
		PostedAt:      m.PostedAt,
		VoidedBy:      m.VoidedBy,
		VoidedAt:      m.VoidedAt,
		ReversalOfID:  m.ReversalOfID,
		ReversedByID:  m.ReversedByID,
		Version:       m.Version,
		AuditFields:   auditFromRow(m.AuditFields),
	}
	if m.SourceEventType != nil {
		et := domain.EventType(*m.SourceEventType)
		d.SourceEventType = &et
	}
	return d
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(tenantID string, d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		TenantID:     tenantID,
		LineNo:       d.LineNo,
		AccountCode:  d.AccountCode,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Description:  d.Description,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNo:       m.LineNo,
		AccountCode:  m.AccountCode,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		Description:  m.Description,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
