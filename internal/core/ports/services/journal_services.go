package services

import (
	"context"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// JournalSvcFacade drives the journal entry state machine:
// DRAFT -> PENDING_APPROVAL -> APPROVED -> POSTED, with REJECTED/resubmit and
// CANCELLED side exits.
type JournalSvcFacade interface {
	CreateJournal(ctx context.Context, workplaceID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error)
	GetJournalByID(ctx context.Context, workplaceID string, journalID string, requestingUserID string) (*domain.JournalEntry, error)
	ListJournals(ctx context.Context, workplaceID string, params dto.ListJournalsParams, requestingUserID string) (*dto.ListJournalsResponse, error)
	UpdateJournal(ctx context.Context, workplaceID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.JournalEntry, error)
	DeleteJournal(ctx context.Context, workplaceID string, journalID string, requestingUserID string) error
	CancelJournal(ctx context.Context, workplaceID string, journalID string, requestingUserID string) error

	SubmitJournal(ctx context.Context, workplaceID string, journalID string, req dto.SubmitJournalRequest, submitterID string) (*domain.JournalEntry, error)
	ApproveJournal(ctx context.Context, workplaceID string, journalID string, req dto.ApproveJournalRequest, approverID string) (*domain.JournalEntry, error)
	RejectJournal(ctx context.Context, workplaceID string, journalID string, req dto.RejectJournalRequest, approverID string) (*domain.JournalEntry, error)
	ResubmitJournal(ctx context.Context, workplaceID string, journalID string, requesterID string) (*domain.JournalEntry, error)
}

// PostingSvcFacade is the sole gateway for turning APPROVED journals into
// immutable general ledger rows.
type PostingSvcFacade interface {
	PostJournal(ctx context.Context, workplaceID string, journalID string, posterID string) (*domain.JournalEntry, error)
}

// ReversalSvcFacade derives balance-swapped counter-entries from posted journals.
type ReversalSvcFacade interface {
	ReverseJournal(ctx context.Context, workplaceID string, journalID string, req dto.ReverseJournalRequest, requestingUserID string) (*domain.JournalEntry, error)
}
