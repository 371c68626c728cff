package intake

import (
	"context"
	"time"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceptionDocumentFilter defines filtering options for document queries
type ReceptionDocumentFilter struct {
	shared.Filter
	SupplierID    *uuid.UUID             // Filter by supplier
	Status        *DocumentStatus        // Filter by lifecycle status
	PaymentStatus *advance.PaymentStatus // Filter by payment status
	Material      *string                // Filter by material
	FromDate      *time.Time             // Filter by creation date range start
	ToDate        *time.Time             // Filter by creation date range end
}

// ReceptionDocumentRepository defines the interface for reception document persistence
type ReceptionDocumentRepository interface {
	// FindByID finds a reception document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReceptionDocument, error)

	// FindByDocumentNumber finds a document by its number
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*ReceptionDocument, error)

	// FindAll finds documents with filtering; supplier-scoped listings go
	// through ReceptionDocumentFilter.SupplierID
	FindAll(ctx context.Context, filter ReceptionDocumentFilter) ([]ReceptionDocument, error)

	// Save creates or updates a document
	Save(ctx context.Context, doc *ReceptionDocument) error

	// SaveWithLock saves with optimistic locking (version check);
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	SaveWithLock(ctx context.Context, doc *ReceptionDocument) error

	// Count counts documents matching the filter
	Count(ctx context.Context, filter ReceptionDocumentFilter) (int64, error)

	// SumOutstandingDebt sums the final debt of the supplier's settled,
	// not fully paid documents
	SumOutstandingDebt(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error)
}
