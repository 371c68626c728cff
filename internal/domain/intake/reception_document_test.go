package intake

import (
	"testing"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeasurement() WeighingMeasurement {
	return WeighingMeasurement{
		GrossWeight:           valueobject.NewWeight(decimal.NewFromInt(100)),
		PackagingWeight:       valueobject.NewWeight(decimal.NewFromInt(5)),
		MoistureRate:          rate("12"),
		DesiccationTargetRate: rate("8"),
	}
}

func newTestDocument(t *testing.T) *ReceptionDocument {
	t.Helper()
	doc, err := NewReceptionDocument(
		"REC-2026-0001",
		uuid.New(),
		"Coopérative Sambava",
		"clous de girofle",
		validMeasurement(),
		valueobject.NewMoneyMGAFromInt(10000),
		valueobject.ZeroMGA(),
	)
	require.NoError(t, err)
	return doc
}

func TestNewReceptionDocument(t *testing.T) {
	t.Run("computes derived figures at creation", func(t *testing.T) {
		doc := newTestDocument(t)

		assert.Equal(t, "REC-2026-0001", doc.DocumentNumber)
		assert.Equal(t, DocumentStatusRecorded, doc.Status)
		assert.True(t, doc.NetWeight.Equal(decimal.RequireFromString("91.2")),
			"net weight: got %s", doc.NetWeight)
		assert.True(t, doc.TotalPrice.Equal(decimal.NewFromInt(912000)),
			"total price: got %s", doc.TotalPrice)
		assert.True(t, doc.FinalDebt.IsZero())
		assert.Equal(t, 1, doc.Version)
		assert.False(t, doc.IsSettled())
		assert.False(t, doc.IsCorrection())
	})

	t.Run("emits recorded event", func(t *testing.T) {
		doc := newTestDocument(t)

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		recorded, ok := events[0].(*ReceptionRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, "ReceptionRecorded", recorded.EventType())
		assert.Equal(t, doc.ID, recorded.DocumentID)
		assert.True(t, recorded.TotalPrice.Equal(doc.TotalPrice))
	})

	t.Run("rejects invalid metadata", func(t *testing.T) {
		tests := []struct {
			name     string
			docNum   string
			supplier uuid.UUID
			supName  string
			material string
		}{
			{"empty document number", "", uuid.New(), "S", "girofle"},
			{"nil supplier", "REC-1", uuid.Nil, "S", "girofle"},
			{"empty supplier name", "REC-1", uuid.New(), "", "girofle"},
			{"empty material", "REC-1", uuid.New(), "S", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewReceptionDocument(
					tt.docNum, tt.supplier, tt.supName, tt.material,
					validMeasurement(),
					valueobject.NewMoneyMGAFromInt(10000),
					valueobject.ZeroMGA(),
				)
				assert.Error(t, err)
			})
		}
	})

	t.Run("rejects invalid measurement", func(t *testing.T) {
		m := validMeasurement()
		m.PackagingWeight = valueobject.NewWeight(decimal.NewFromInt(200))

		_, err := NewReceptionDocument(
			"REC-1", uuid.New(), "S", "girofle", m,
			valueobject.NewMoneyMGAFromInt(10000),
			valueobject.ZeroMGA(),
		)
		assert.Error(t, err)
	})
}

func TestReceptionDocument_AmountOwedInitial(t *testing.T) {
	t.Run("full price owed without direct payment", func(t *testing.T) {
		doc := newTestDocument(t)
		assert.True(t, doc.AmountOwedInitial().Equal(decimal.NewFromInt(912000)))
	})

	t.Run("direct payment reduces the amount to cover", func(t *testing.T) {
		doc, err := NewReceptionDocument(
			"REC-2026-0002", uuid.New(), "S", "girofle",
			validMeasurement(),
			valueobject.NewMoneyMGAFromInt(10000),
			valueobject.NewMoneyMGAFromInt(112000),
		)
		require.NoError(t, err)
		assert.True(t, doc.AmountOwedInitial().Equal(decimal.NewFromInt(800000)))
	})

	t.Run("over-payment clamps to zero", func(t *testing.T) {
		doc, err := NewReceptionDocument(
			"REC-2026-0003", uuid.New(), "S", "girofle",
			validMeasurement(),
			valueobject.NewMoneyMGAFromInt(10000),
			valueobject.NewMoneyMGAFromInt(2000000),
		)
		require.NoError(t, err)
		assert.True(t, doc.AmountOwedInitial().IsZero())
	})
}

func TestReceptionDocument_ApplySettlement(t *testing.T) {
	t.Run("fixes debt and payment status", func(t *testing.T) {
		doc := newTestDocument(t)
		doc.ClearDomainEvents()

		settlement := &advance.Settlement{
			TotalPrice:         doc.TotalPrice,
			AmountPaidDirectly: decimal.Zero,
			TotalApplied:       decimal.NewFromInt(912000),
			FinalDebt:          decimal.Zero,
			Status:             advance.PaymentStatusPaid,
		}

		err := doc.ApplySettlement(settlement)
		require.NoError(t, err)

		assert.Equal(t, DocumentStatusSettled, doc.Status)
		assert.Equal(t, advance.PaymentStatusPaid, doc.PaymentStatus)
		assert.True(t, doc.FinalDebt.IsZero())
		assert.NotNil(t, doc.SettledAt)
		assert.Equal(t, 2, doc.Version)

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		settled, ok := events[0].(*ReceptionSettledEvent)
		require.True(t, ok)
		assert.Equal(t, advance.PaymentStatusPaid, settled.PaymentStatus)
	})

	t.Run("rejects second settlement", func(t *testing.T) {
		doc := newTestDocument(t)
		settlement := &advance.Settlement{
			FinalDebt: decimal.NewFromInt(912000),
			Status:    advance.PaymentStatusAwaitingPayment,
		}
		require.NoError(t, doc.ApplySettlement(settlement))

		err := doc.ApplySettlement(settlement)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already settled")
	})

	t.Run("rejects nil settlement", func(t *testing.T) {
		doc := newTestDocument(t)
		assert.Error(t, doc.ApplySettlement(nil))
	})
}

func TestNewCorrectionDocument(t *testing.T) {
	original := newTestDocument(t)

	m := validMeasurement()
	m.GrossWeight = valueobject.NewWeight(decimal.NewFromInt(98))

	correction, err := NewCorrectionDocument(
		original,
		"REC-2026-0001-C1",
		m,
		valueobject.NewMoneyMGAFromInt(10000),
		valueobject.ZeroMGA(),
		"scale drift on first weighing",
	)
	require.NoError(t, err)

	assert.True(t, correction.IsCorrection())
	require.NotNil(t, correction.CorrectionOfID)
	assert.Equal(t, original.ID, *correction.CorrectionOfID)
	assert.Equal(t, original.SupplierID, correction.SupplierID)
	assert.Equal(t, original.Material, correction.Material)
	assert.Equal(t, "scale drift on first weighing", correction.Remark)
	assert.Equal(t, DocumentStatusRecorded, correction.Status)

	// Original stays untouched.
	assert.Equal(t, DocumentStatusRecorded, original.Status)
	assert.True(t, original.GrossWeight.Equal(decimal.NewFromInt(100)))
}

func TestNewCorrectionDocument_NilOriginal(t *testing.T) {
	_, err := NewCorrectionDocument(
		nil, "REC-C1", validMeasurement(),
		valueobject.NewMoneyMGAFromInt(10000), valueobject.ZeroMGA(), "r",
	)
	assert.Error(t, err)
}
