package services

import (
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Event processing is unbounded here; callers that fan out wrap
// container.Event with NewWorkerPoolEventService.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo)

	journalOpts := []JournalServiceOption{}
	if repos.AuditRepo != nil {
		journalOpts = append(journalOpts, WithAuditTrail(repos.AuditRepo))
	}
	journals := NewJournalService(repos.TxManager, repos.JournalRepo, repos.AccountRepo, journalOpts...)
	container.Journal = journals

	container.Event = NewEventJournalService(journals, repos.JournalRepo, repos.EventRepo)

	ledger := NewLedgerQueryService(repos.TxManager, repos.AccountRepo, repos.ReportRepo)
	container.Ledger = ledger
	container.Export = NewReportExportService(ledger)

	return container
}
