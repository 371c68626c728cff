package advance

import (
	"context"
	"fmt"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditService handles the lifecycle of supplier advance credits
type CreditService struct {
	creditRepo advance.CreditRepository
	events     shared.EventPublisher
}

// NewCreditService creates a new CreditService. A nil publisher disables
// event delivery.
func NewCreditService(creditRepo advance.CreditRepository, events shared.EventPublisher) *CreditService {
	return &CreditService{creditRepo: creditRepo, events: events}
}

// RegisterCreditRequest represents a request to register a supplier advance
type RegisterCreditRequest struct {
	CreditNumber string
	SupplierID   uuid.UUID
	SupplierName string
	TotalAmount  decimal.Decimal
	Remark       string
	AutoConfirm  bool // Register and confirm in one step
}

// RegisterCredit registers a new advance paid out to a supplier
func (s *CreditService) RegisterCredit(ctx context.Context, req RegisterCreditRequest) (*advance.AdvancePaymentCredit, error) {
	existing, err := s.creditRepo.FindByCreditNumber(ctx, req.CreditNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check credit number: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CREDIT_NUMBER",
			fmt.Sprintf("Credit number %s already exists", req.CreditNumber))
	}

	credit, err := advance.NewAdvancePaymentCredit(
		req.CreditNumber,
		req.SupplierID,
		req.SupplierName,
		valueobject.NewMoneyMGA(req.TotalAmount),
	)
	if err != nil {
		return nil, err
	}

	if req.Remark != "" {
		credit.Remark = req.Remark
	}
	if req.AutoConfirm {
		if err := credit.Confirm(); err != nil {
			return nil, err
		}
	}

	if err := s.creditRepo.Save(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}
	shared.PublishAndClear(ctx, s.events, credit)

	return credit, nil
}

// ConfirmCredit moves a pending credit to AVAILABLE
func (s *CreditService) ConfirmCredit(ctx context.Context, creditID uuid.UUID) (*advance.AdvancePaymentCredit, error) {
	credit, err := s.getCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	if err := credit.Confirm(); err != nil {
		return nil, err
	}

	if err := s.creditRepo.SaveWithLock(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}
	shared.PublishAndClear(ctx, s.events, credit)

	return credit, nil
}

// CancelCredit voids the unused remainder of a credit
func (s *CreditService) CancelCredit(ctx context.Context, creditID uuid.UUID, reason string) (*advance.AdvancePaymentCredit, error) {
	credit, err := s.getCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	if err := credit.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.creditRepo.SaveWithLock(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to save credit: %w", err)
	}
	shared.PublishAndClear(ctx, s.events, credit)

	return credit, nil
}

// GetCredit returns a credit by ID
func (s *CreditService) GetCredit(ctx context.Context, creditID uuid.UUID) (*advance.AdvancePaymentCredit, error) {
	return s.getCredit(ctx, creditID)
}

// ListCredits returns credits matching the filter with pagination
func (s *CreditService) ListCredits(ctx context.Context, filter advance.CreditFilter) (*shared.Paginated[advance.AdvancePaymentCredit], error) {
	credits, err := s.creditRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}

	total, err := s.creditRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count credits: %w", err)
	}

	result := shared.NewPaginated(credits, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetSupplierAvailableBalance sums what a supplier can still draw against
func (s *CreditService) GetSupplierAvailableBalance(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	if supplierID == uuid.Nil {
		return decimal.Zero, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	sum, err := s.creditRepo.SumAvailableBySupplier(ctx, supplierID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum available credits: %w", err)
	}

	return sum, nil
}

func (s *CreditService) getCredit(ctx context.Context, creditID uuid.UUID) (*advance.AdvancePaymentCredit, error) {
	credit, err := s.creditRepo.FindByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}
	if credit == nil {
		return nil, shared.NewDomainError("CREDIT_NOT_FOUND", "Advance credit not found")
	}
	return credit, nil
}
