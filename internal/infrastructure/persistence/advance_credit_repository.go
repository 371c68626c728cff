package persistence

import (
	"context"
	"errors"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCreditRepository implements CreditRepository using GORM
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new GormCreditRepository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// FindByID finds a credit by ID
func (r *GormCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*advance.AdvancePaymentCredit, error) {
	var credit advance.AdvancePaymentCredit
	if err := r.db.WithContext(ctx).First(&credit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credit, nil
}

// FindByCreditNumber finds a credit by its number
func (r *GormCreditRepository) FindByCreditNumber(ctx context.Context, creditNumber string) (*advance.AdvancePaymentCredit, error) {
	var credit advance.AdvancePaymentCredit
	if err := r.db.WithContext(ctx).First(&credit, "credit_number = ?", creditNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credit, nil
}

// FindAll finds credits with filtering
func (r *GormCreditRepository) FindAll(ctx context.Context, filter advance.CreditFilter) ([]advance.AdvancePaymentCredit, error) {
	var credits []advance.AdvancePaymentCredit
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("created_at DESC").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindAvailableBySupplier returns the supplier's AVAILABLE credits with a
// positive remaining balance, oldest first. The ordering is the allocation
// order, so it is part of the repository contract.
func (r *GormCreditRepository) FindAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) ([]advance.AdvancePaymentCredit, error) {
	var credits []advance.AdvancePaymentCredit
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND status = ? AND remaining_amount > 0",
			supplierID, advance.CreditStatusAvailable).
		Order("created_at ASC").
		Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Save creates or updates a credit
func (r *GormCreditRepository) Save(ctx context.Context, credit *advance.AdvancePaymentCredit) error {
	return r.db.WithContext(ctx).Save(credit).Error
}

// SaveWithLock saves with optimistic locking. A version mismatch means the
// credit was drawn or cancelled concurrently, so the caller must reload.
func (r *GormCreditRepository) SaveWithLock(ctx context.Context, credit *advance.AdvancePaymentCredit) error {
	result := r.db.WithContext(ctx).
		Model(credit).
		Where("id = ? AND version = ?", credit.ID, credit.Version-1).
		Updates(credit)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts credits matching the filter
func (r *GormCreditRepository) Count(ctx context.Context, filter advance.CreditFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&advance.AdvancePaymentCredit{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAvailableBySupplier sums the remaining balance of the supplier's
// AVAILABLE credits
func (r *GormCreditRepository) SumAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&advance.AdvancePaymentCredit{}).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Where("supplier_id = ? AND status = ?", supplierID, advance.CreditStatusAvailable).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormCreditRepository) applyFilter(query *gorm.DB, filter advance.CreditFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormCreditRepository implements the interface
var _ advance.CreditRepository = (*GormCreditRepository)(nil)
