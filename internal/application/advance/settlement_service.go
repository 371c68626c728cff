package advance

import (
	"context"
	"errors"
	"fmt"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// maxSettleAttempts bounds the optimistic-lock retry loop. Each retry reloads
// the document and the credit pool, so a conflict from a concurrent settlement
// or cancellation is recomputed on fresh state rather than replayed blindly.
const maxSettleAttempts = 3

// SettlementUnitOfWork commits one settlement atomically: the settled
// document, every drawn credit and the audit records succeed or fail as one
// transaction, each aggregate guarded by its own version check.
type SettlementUnitOfWork interface {
	Commit(
		ctx context.Context,
		doc *intake.ReceptionDocument,
		credits []*advance.AdvancePaymentCredit,
		records []*advance.AllocationRecord,
	) error
}

// SettlementService settles reception documents against the supplier's
// advance credits
type SettlementService struct {
	docRepo     intake.ReceptionDocumentRepository
	creditRepo  advance.CreditRepository
	uow         SettlementUnitOfWork
	idempotency shared.IdempotencyStore
	idemCfg     shared.IdempotencyConfig
	events      shared.EventPublisher
}

// NewSettlementService creates a new SettlementService. A nil publisher
// disables event delivery.
func NewSettlementService(
	docRepo intake.ReceptionDocumentRepository,
	creditRepo advance.CreditRepository,
	uow SettlementUnitOfWork,
	idempotency shared.IdempotencyStore,
	idemCfg shared.IdempotencyConfig,
	events shared.EventPublisher,
) *SettlementService {
	return &SettlementService{
		docRepo:     docRepo,
		creditRepo:  creditRepo,
		uow:         uow,
		idempotency: idempotency,
		idemCfg:     idemCfg,
		events:      events,
	}
}

// SettleDocumentRequest represents a request to settle a reception document
type SettleDocumentRequest struct {
	DocumentID     uuid.UUID
	IdempotencyKey string // Optional client-supplied key guarding retries
}

// SettlementResult carries the settled document plus the resolved settlement
// with its per-credit breakdown
type SettlementResult struct {
	Document   *intake.ReceptionDocument `json:"document"`
	Settlement *advance.Settlement       `json:"settlement"`
}

// SettleDocument runs the settlement pipeline for one reception document:
// the supplier's available credits are loaded oldest first, allocated against
// the directly-unpaid remainder, drawn down, and committed together with the
// settled document and the audit trail in one transaction.
//
// A version conflict on any touched aggregate aborts the transaction and the
// whole pipeline is retried on fresh state, a bounded number of times.
func (s *SettlementService) SettleDocument(ctx context.Context, req SettleDocumentRequest) (*SettlementResult, error) {
	if s.idemCfg.Enabled && req.IdempotencyKey != "" {
		first, err := s.idempotency.MarkProcessed(ctx, "settlement:"+req.IdempotencyKey, s.idemCfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if !first {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST",
				fmt.Sprintf("Settlement request %s was already processed", req.IdempotencyKey))
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxSettleAttempts; attempt++ {
		result, err := s.settleOnce(ctx, req.DocumentID)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("settlement of document %s kept conflicting after %d attempts: %w",
		req.DocumentID, maxSettleAttempts, lastErr)
}

func (s *SettlementService) settleOnce(ctx context.Context, documentID uuid.UUID) (*SettlementResult, error) {
	doc, credits, err := s.loadSettlementState(ctx, documentID)
	if err != nil {
		return nil, err
	}

	settlement, err := s.resolve(doc, credits)
	if err != nil {
		return nil, err
	}

	drawn := make([]*advance.AdvancePaymentCredit, 0, len(settlement.Breakdown))
	records := make([]*advance.AllocationRecord, 0, len(settlement.Breakdown))
	for _, entry := range settlement.Breakdown {
		credit := creditByID(credits, entry.CreditID)
		if credit == nil {
			return nil, shared.NewInvariantViolation(
				fmt.Sprintf("allocation touched credit %s that is not in the loaded pool", entry.CreditID))
		}
		if err := credit.Draw(valueobject.NewMoneyMGA(entry.Applied), doc.ID); err != nil {
			return nil, err
		}
		drawn = append(drawn, credit)
		records = append(records, advance.NewAllocationRecord(doc.ID, entry))
	}

	if err := doc.ApplySettlement(settlement); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(ctx, doc, drawn, records); err != nil {
		return nil, err
	}

	shared.PublishAndClear(ctx, s.events, doc)
	for _, credit := range drawn {
		shared.PublishAndClear(ctx, s.events, credit)
	}

	return &SettlementResult{Document: doc, Settlement: settlement}, nil
}

// PreviewSettlement computes what a settlement would do without drawing
// anything: same allocation, same status resolution, nothing persisted.
func (s *SettlementService) PreviewSettlement(ctx context.Context, documentID uuid.UUID) (*advance.Settlement, error) {
	doc, credits, err := s.loadSettlementState(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.resolve(doc, credits)
}

func (s *SettlementService) loadSettlementState(
	ctx context.Context,
	documentID uuid.UUID,
) (*intake.ReceptionDocument, []advance.AdvancePaymentCredit, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Reception document not found")
	}
	if doc.IsSettled() {
		return nil, nil, shared.NewDomainError("ALREADY_SETTLED",
			fmt.Sprintf("Document %s is already settled", doc.DocumentNumber))
	}

	credits, err := s.creditRepo.FindAvailableBySupplier(ctx, doc.SupplierID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load available credits: %w", err)
	}

	return doc, credits, nil
}

func (s *SettlementService) resolve(
	doc *intake.ReceptionDocument,
	credits []advance.AdvancePaymentCredit,
) (*advance.Settlement, error) {
	allocation, err := advance.Allocate(doc.AmountOwedInitial(), credits)
	if err != nil {
		return nil, err
	}
	return advance.ResolveSettlement(doc.TotalPrice, doc.AmountPaidDirectly, allocation)
}

func creditByID(credits []advance.AdvancePaymentCredit, id uuid.UUID) *advance.AdvancePaymentCredit {
	for i := range credits {
		if credits[i].ID == id {
			return &credits[i]
		}
	}
	return nil
}
