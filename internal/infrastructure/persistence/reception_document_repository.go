package persistence

import (
	"context"
	"errors"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReceptionDocumentRepository implements ReceptionDocumentRepository using GORM
type GormReceptionDocumentRepository struct {
	db *gorm.DB
}

// NewGormReceptionDocumentRepository creates a new GormReceptionDocumentRepository
func NewGormReceptionDocumentRepository(db *gorm.DB) *GormReceptionDocumentRepository {
	return &GormReceptionDocumentRepository{db: db}
}

// FindByID finds a reception document by ID
func (r *GormReceptionDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*intake.ReceptionDocument, error) {
	var doc intake.ReceptionDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindByDocumentNumber finds a document by its number
func (r *GormReceptionDocumentRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*intake.ReceptionDocument, error) {
	var doc intake.ReceptionDocument
	if err := r.db.WithContext(ctx).First(&doc, "document_number = ?", documentNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll finds documents with filtering
func (r *GormReceptionDocumentRepository) FindAll(ctx context.Context, filter intake.ReceptionDocumentFilter) ([]intake.ReceptionDocument, error) {
	var docs []intake.ReceptionDocument
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document
func (r *GormReceptionDocumentRepository) Save(ctx context.Context, doc *intake.ReceptionDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// SaveWithLock saves with optimistic locking. The update only lands when the
// stored row still carries the version the aggregate was loaded with.
func (r *GormReceptionDocumentRepository) SaveWithLock(ctx context.Context, doc *intake.ReceptionDocument) error {
	result := r.db.WithContext(ctx).
		Model(doc).
		Where("id = ? AND version = ?", doc.ID, doc.Version-1).
		Updates(doc)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts documents matching the filter
func (r *GormReceptionDocumentRepository) Count(ctx context.Context, filter intake.ReceptionDocumentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&intake.ReceptionDocument{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstandingDebt sums the final debt of the supplier's settled, not fully
// paid documents
func (r *GormReceptionDocumentRepository) SumOutstandingDebt(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&intake.ReceptionDocument{}).
		Select("COALESCE(SUM(final_debt), 0)").
		Where("supplier_id = ? AND status = ? AND payment_status <> ?",
			supplierID, intake.DocumentStatusSettled, advance.PaymentStatusPaid).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormReceptionDocumentRepository) applyFilter(query *gorm.DB, filter intake.ReceptionDocumentFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.Material != nil {
		query = query.Where("material = ?", *filter.Material)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormReceptionDocumentRepository implements the interface
var _ intake.ReceptionDocumentRepository = (*GormReceptionDocumentRepository)(nil)
