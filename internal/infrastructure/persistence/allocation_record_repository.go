package persistence

import (
	"context"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAllocationRecordRepository implements AllocationRecordRepository using GORM
type GormAllocationRecordRepository struct {
	db *gorm.DB
}

// NewGormAllocationRecordRepository creates a new GormAllocationRecordRepository
func NewGormAllocationRecordRepository(db *gorm.DB) *GormAllocationRecordRepository {
	return &GormAllocationRecordRepository{db: db}
}

// FindByDocument returns the allocation records for a reception document, oldest first
func (r *GormAllocationRecordRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]advance.AllocationRecord, error) {
	var records []advance.AllocationRecord
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByCredit returns the allocation records drawn from a credit, oldest first
func (r *GormAllocationRecordRepository) FindByCredit(ctx context.Context, creditID uuid.UUID) ([]advance.AllocationRecord, error) {
	var records []advance.AllocationRecord
	if err := r.db.WithContext(ctx).
		Where("credit_id = ?", creditID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save persists an allocation record
func (r *GormAllocationRecordRepository) Save(ctx context.Context, record *advance.AllocationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Ensure GormAllocationRecordRepository implements the interface
var _ advance.AllocationRecordRepository = (*GormAllocationRecordRepository)(nil)
