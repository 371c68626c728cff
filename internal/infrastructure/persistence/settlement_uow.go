package persistence

import (
	"context"

	appadvance "github.com/essencia/backend/internal/application/advance"
	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSettlementUnitOfWork commits one settlement in a single database
// transaction. Every aggregate update is version-guarded; if any concurrent
// writer touched the document or one of the credits, the whole transaction
// rolls back with shared.ErrConcurrencyConflict and the caller recomputes on
// fresh state.
type GormSettlementUnitOfWork struct {
	db *gorm.DB
}

// NewGormSettlementUnitOfWork creates a new GormSettlementUnitOfWork
func NewGormSettlementUnitOfWork(db *gorm.DB) *GormSettlementUnitOfWork {
	return &GormSettlementUnitOfWork{db: db}
}

// Commit persists the settled document, the drawn credits and the allocation
// audit records atomically
func (u *GormSettlementUnitOfWork) Commit(
	ctx context.Context,
	doc *intake.ReceptionDocument,
	credits []*advance.AdvancePaymentCredit,
	records []*advance.AllocationRecord,
) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, doc, doc.ID.String(), doc.Version); err != nil {
			return err
		}

		for _, credit := range credits {
			if err := saveVersioned(tx, credit, credit.ID.String(), credit.Version); err != nil {
				return err
			}
		}

		for _, record := range records {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// saveVersioned applies a version-guarded update for one aggregate. The
// aggregate's in-memory version was already incremented by the domain layer,
// so the row must still hold the previous version for the update to land.
func saveVersioned(tx *gorm.DB, model any, id string, version int) error {
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormSettlementUnitOfWork implements the interface
var _ appadvance.SettlementUnitOfWork = (*GormSettlementUnitOfWork)(nil)
