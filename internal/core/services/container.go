package services

import (
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires all services with their repository and
// cross-service dependencies.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, policy domain.ApprovalPolicy) *portssvc.ServiceContainer {
	workplaceSvc := NewWorkplaceService(repos.WorkplaceRepo, repos.UserRepo)
	userSvc := NewUserService(repos.UserRepo)
	accountSvc := NewAccountService(repos.AccountRepo, repos.LedgerRepo, workplaceSvc)
	periodSvc := NewPeriodService(repos.PeriodRepo, workplaceSvc)
	approvalSvc := NewApprovalService(repos.ApprovalRepo, workplaceSvc, policy)
	postingSvc := NewPostingService(repos.JournalRepo, repos.LedgerRepo, periodSvc, workplaceSvc)
	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.SequenceRepo, periodSvc, approvalSvc, postingSvc, workplaceSvc)
	reversalSvc := NewReversalService(repos.JournalRepo, repos.LedgerRepo, repos.SequenceRepo, periodSvc, workplaceSvc)
	ledgerSvc := NewLedgerService(repos.LedgerRepo, repos.AccountRepo, workplaceSvc)

	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Period:    periodSvc,
		Journal:   journalSvc,
		Approval:  approvalSvc,
		Posting:   postingSvc,
		Reversal:  reversalSvc,
		Ledger:    ledgerSvc,
		User:      userSvc,
		Workplace: workplaceSvc,
	}
}
