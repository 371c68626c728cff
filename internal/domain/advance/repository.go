package advance

import (
	"context"
	"time"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditFilter defines filtering options for credit queries
type CreditFilter struct {
	shared.Filter
	SupplierID *uuid.UUID    // Filter by supplier
	Status     *CreditStatus // Filter by status
	FromDate   *time.Time    // Filter by creation date range start
	ToDate     *time.Time    // Filter by creation date range end
}

// CreditRepository defines the interface for advance credit persistence
type CreditRepository interface {
	// FindByID finds a credit by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AdvancePaymentCredit, error)

	// FindByCreditNumber finds a credit by its number
	FindByCreditNumber(ctx context.Context, creditNumber string) (*AdvancePaymentCredit, error)

	// FindAll finds credits with filtering
	FindAll(ctx context.Context, filter CreditFilter) ([]AdvancePaymentCredit, error)

	// FindAvailableBySupplier returns the supplier's AVAILABLE credits with a
	// positive remaining balance, ordered by creation time ascending. This
	// ordering is the allocation order and must not be changed downstream.
	FindAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) ([]AdvancePaymentCredit, error)

	// Save creates or updates a credit
	Save(ctx context.Context, credit *AdvancePaymentCredit) error

	// SaveWithLock saves with optimistic locking (version check);
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, credit *AdvancePaymentCredit) error

	// Count counts credits matching the filter
	Count(ctx context.Context, filter CreditFilter) (int64, error)

	// SumAvailableBySupplier sums the remaining balance of the supplier's
	// AVAILABLE credits
	SumAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error)
}

// AllocationRecordRepository defines the interface for allocation audit persistence
type AllocationRecordRepository interface {
	// FindByDocument returns the allocation records for a reception document,
	// oldest first
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]AllocationRecord, error)

	// FindByCredit returns the allocation records drawn from a credit,
	// oldest first
	FindByCredit(ctx context.Context, creditID uuid.UUID) ([]AllocationRecord, error)

	// Save persists an allocation record
	Save(ctx context.Context, record *AllocationRecord) error
}
