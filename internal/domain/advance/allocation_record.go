package advance

import (
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRecord is the persisted audit trail of one credit draw against a
// reception document. Records are append-only: a correction is a new
// compensating record, never an update of an old one.
type AllocationRecord struct {
	shared.BaseEntity
	DocumentID      uuid.UUID       `json:"document_id"`
	CreditID        uuid.UUID       `json:"credit_id"`
	CreditNumber    string          `json:"credit_number"`
	Applied         decimal.Decimal `json:"applied"`
	UsedBefore      decimal.Decimal `json:"used_before"`
	RemainingBefore decimal.Decimal `json:"remaining_before"`
	UsedAfter       decimal.Decimal `json:"used_after"`
	RemainingAfter  decimal.Decimal `json:"remaining_after"`
	StatusAfter     CreditStatus    `json:"status_after"`
}

// NewAllocationRecord creates an audit record from an allocation entry
func NewAllocationRecord(documentID uuid.UUID, entry AllocationEntry) *AllocationRecord {
	return &AllocationRecord{
		BaseEntity:      shared.NewBaseEntity(),
		DocumentID:      documentID,
		CreditID:        entry.CreditID,
		CreditNumber:    entry.CreditNumber,
		Applied:         entry.Applied,
		UsedBefore:      entry.UsedBefore,
		RemainingBefore: entry.RemainingBefore,
		UsedAfter:       entry.UsedAfter,
		RemainingAfter:  entry.RemainingAfter,
		StatusAfter:     entry.StatusAfter,
	}
}
