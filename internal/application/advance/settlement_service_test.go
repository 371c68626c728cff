package advance

import (
	"context"
	"testing"
	"time"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockReceptionDocumentRepository struct {
	mock.Mock
}

func (m *MockReceptionDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*intake.ReceptionDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.ReceptionDocument), args.Error(1)
}

func (m *MockReceptionDocumentRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*intake.ReceptionDocument, error) {
	args := m.Called(ctx, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.ReceptionDocument), args.Error(1)
}

func (m *MockReceptionDocumentRepository) FindAll(ctx context.Context, filter intake.ReceptionDocumentFilter) ([]intake.ReceptionDocument, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]intake.ReceptionDocument), args.Error(1)
}

func (m *MockReceptionDocumentRepository) Save(ctx context.Context, doc *intake.ReceptionDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockReceptionDocumentRepository) SaveWithLock(ctx context.Context, doc *intake.ReceptionDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockReceptionDocumentRepository) Count(ctx context.Context, filter intake.ReceptionDocumentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceptionDocumentRepository) SumOutstandingDebt(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*advance.AdvancePaymentCredit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*advance.AdvancePaymentCredit), args.Error(1)
}

func (m *MockCreditRepository) FindByCreditNumber(ctx context.Context, creditNumber string) (*advance.AdvancePaymentCredit, error) {
	args := m.Called(ctx, creditNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*advance.AdvancePaymentCredit), args.Error(1)
}

func (m *MockCreditRepository) FindAll(ctx context.Context, filter advance.CreditFilter) ([]advance.AdvancePaymentCredit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]advance.AdvancePaymentCredit), args.Error(1)
}

func (m *MockCreditRepository) FindAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) ([]advance.AdvancePaymentCredit, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).([]advance.AdvancePaymentCredit), args.Error(1)
}

func (m *MockCreditRepository) Save(ctx context.Context, credit *advance.AdvancePaymentCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) SaveWithLock(ctx context.Context, credit *advance.AdvancePaymentCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) Count(ctx context.Context, filter advance.CreditFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditRepository) SumAvailableBySupplier(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockSettlementUnitOfWork struct {
	mock.Mock
}

func (m *MockSettlementUnitOfWork) Commit(
	ctx context.Context,
	doc *intake.ReceptionDocument,
	credits []*advance.AdvancePaymentCredit,
	records []*advance.AllocationRecord,
) error {
	args := m.Called(ctx, doc, credits, records)
	return args.Error(0)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Test Helpers
// =============================================================================

func testDocument(t *testing.T, supplierID uuid.UUID, grossKg int64, unitPrice, paidDirectly int64) *intake.ReceptionDocument {
	t.Helper()
	doc, err := intake.NewReceptionDocument(
		"REC-"+uuid.NewString()[:8],
		supplierID,
		"Coopérative Sambava",
		"clous de girofle",
		intake.WeighingMeasurement{
			GrossWeight:     valueobject.NewWeight(decimal.NewFromInt(grossKg)),
			PackagingWeight: valueobject.ZeroWeight(),
		},
		valueobject.NewMoneyMGAFromInt(unitPrice),
		valueobject.NewMoneyMGAFromInt(paidDirectly),
	)
	require.NoError(t, err)
	doc.ClearDomainEvents()
	return doc
}

func testCredit(t *testing.T, supplierID uuid.UUID, number string, amount int64) advance.AdvancePaymentCredit {
	t.Helper()
	c, err := advance.NewAdvancePaymentCredit(number, supplierID, "Coopérative Sambava",
		valueobject.NewMoneyMGAFromInt(amount))
	require.NoError(t, err)
	require.NoError(t, c.Confirm())
	c.ClearDomainEvents()
	return *c
}

func newTestService(docRepo *MockReceptionDocumentRepository, creditRepo *MockCreditRepository, uow *MockSettlementUnitOfWork) *SettlementService {
	return NewSettlementService(docRepo, creditRepo, uow, nil, shared.IdempotencyConfig{Enabled: false}, nil)
}

// =============================================================================
// SettleDocument
// =============================================================================

func TestSettlementService_SettleDocument(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()

	t.Run("spans two credits and settles the document as paid", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		// 100 kg at 10,000 MGA/kg, nothing paid directly: 1,000,000 to cover.
		doc := testDocument(t, supplierID, 100, 10000, 0)
		credits := []advance.AdvancePaymentCredit{
			testCredit(t, supplierID, "AVC-1", 400000),
			testCredit(t, supplierID, "AVC-2", 700000),
		}

		docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return(credits, nil)
		uow.On("Commit", ctx, doc, mock.Anything, mock.Anything).Return(nil)

		result, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.NoError(t, err)

		assert.Equal(t, advance.PaymentStatusPaid, result.Settlement.Status)
		assert.True(t, result.Settlement.FinalDebt.IsZero())
		assert.True(t, result.Settlement.TotalApplied.Equal(decimal.NewFromInt(1000000)))
		require.Len(t, result.Settlement.Breakdown, 2)
		assert.True(t, result.Settlement.Breakdown[0].RemainingAfter.IsZero())
		assert.True(t, result.Settlement.Breakdown[1].RemainingAfter.Equal(decimal.NewFromInt(100000)))

		assert.True(t, result.Document.IsSettled())
		assert.Equal(t, advance.PaymentStatusPaid, result.Document.PaymentStatus)

		// Both credits were drawn by the amounts the allocator computed.
		drawn := uow.Calls[0].Arguments.Get(2).([]*advance.AdvancePaymentCredit)
		require.Len(t, drawn, 2)
		assert.Equal(t, advance.CreditStatusExhausted, drawn[0].Status)
		assert.Equal(t, advance.CreditStatusAvailable, drawn[1].Status)
		assert.True(t, drawn[1].RemainingAmount.Equal(decimal.NewFromInt(100000)))

		records := uow.Calls[0].Arguments.Get(3).([]*advance.AllocationRecord)
		require.Len(t, records, 2)
		assert.Equal(t, doc.ID, records[0].DocumentID)

		uow.AssertExpectations(t)
	})

	t.Run("partial coverage leaves a debt and the document partially paid", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		doc := testDocument(t, supplierID, 100, 10000, 0)
		credits := []advance.AdvancePaymentCredit{
			testCredit(t, supplierID, "AVC-1", 300000),
		}

		docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return(credits, nil)
		uow.On("Commit", ctx, doc, mock.Anything, mock.Anything).Return(nil)

		result, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.NoError(t, err)

		assert.Equal(t, advance.PaymentStatusPartiallyPaid, result.Settlement.Status)
		assert.True(t, result.Settlement.FinalDebt.Equal(decimal.NewFromInt(700000)))
		assert.True(t, result.Document.FinalDebt.Equal(decimal.NewFromInt(700000)))
	})

	t.Run("no credits settles as awaiting payment without a transactional draw", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		doc := testDocument(t, supplierID, 50, 10000, 0)

		docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return([]advance.AdvancePaymentCredit{}, nil)
		uow.On("Commit", ctx, doc, mock.Anything, mock.Anything).Return(nil)

		result, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.NoError(t, err)

		assert.Equal(t, advance.PaymentStatusAwaitingPayment, result.Settlement.Status)
		assert.True(t, result.Settlement.FinalDebt.Equal(decimal.NewFromInt(500000)))
		assert.Empty(t, result.Settlement.Breakdown)

		drawn := uow.Calls[0].Arguments.Get(2).([]*advance.AdvancePaymentCredit)
		assert.Empty(t, drawn)
	})

	t.Run("already settled document is rejected", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		doc := testDocument(t, supplierID, 50, 10000, 0)
		settled, err := advance.ResolveSettlement(doc.TotalPrice, decimal.Zero,
			&advance.AllocationResult{AmountToCover: doc.TotalPrice, RemainingUncovered: doc.TotalPrice})
		require.NoError(t, err)
		require.NoError(t, doc.ApplySettlement(settled))

		docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, err = service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already settled")
		uow.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown document is rejected", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		id := uuid.New()
		docRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: id})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DOCUMENT_NOT_FOUND", derr.Code)
	})

	t.Run("retries on version conflict and succeeds on fresh state", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		doc := testDocument(t, supplierID, 100, 10000, 0)

		// Each attempt reloads, so hand out fresh copies.
		docRepo.On("FindByID", ctx, doc.ID).
			Return(testDocument(t, supplierID, 100, 10000, 0), nil).Once()
		docRepo.On("FindByID", ctx, doc.ID).
			Return(testDocument(t, supplierID, 100, 10000, 0), nil).Once()
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).
			Return([]advance.AdvancePaymentCredit{testCredit(t, supplierID, "AVC-1", 2000000)}, nil)

		uow.On("Commit", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(shared.ErrConcurrencyConflict).Once()
		uow.On("Commit", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()

		result, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.NoError(t, err)
		assert.Equal(t, advance.PaymentStatusPaid, result.Settlement.Status)
		uow.AssertNumberOfCalls(t, "Commit", 2)
	})

	t.Run("gives up after bounded conflict retries", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		service := newTestService(docRepo, creditRepo, uow)

		doc := testDocument(t, supplierID, 100, 10000, 0)

		// Each attempt reloads, so hand out fresh copies.
		docRepo.On("FindByID", ctx, doc.ID).Return(testDocument(t, supplierID, 100, 10000, 0), nil).Once()
		docRepo.On("FindByID", ctx, doc.ID).Return(testDocument(t, supplierID, 100, 10000, 0), nil).Once()
		docRepo.On("FindByID", ctx, doc.ID).Return(testDocument(t, supplierID, 100, 10000, 0), nil).Once()
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).
			Return([]advance.AdvancePaymentCredit{}, nil)
		uow.On("Commit", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(shared.ErrConcurrencyConflict)

		_, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		uow.AssertNumberOfCalls(t, "Commit", 3)
	})
}

func TestSettlementService_Idempotency(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()

	t.Run("duplicate key is rejected before any work", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		store := new(MockIdempotencyStore)
		service := NewSettlementService(docRepo, creditRepo, uow, store, shared.DefaultIdempotencyConfig(), nil)

		store.On("MarkProcessed", ctx, "settlement:req-42", mock.Anything).Return(false, nil)

		_, err := service.SettleDocument(ctx, SettleDocumentRequest{
			DocumentID:     uuid.New(),
			IdempotencyKey: "req-42",
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_REQUEST", derr.Code)
		docRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("first use of a key proceeds", func(t *testing.T) {
		docRepo := new(MockReceptionDocumentRepository)
		creditRepo := new(MockCreditRepository)
		uow := new(MockSettlementUnitOfWork)
		store := new(MockIdempotencyStore)
		service := NewSettlementService(docRepo, creditRepo, uow, store, shared.DefaultIdempotencyConfig(), nil)

		doc := testDocument(t, supplierID, 10, 1000, 0)

		store.On("MarkProcessed", ctx, "settlement:req-1", mock.Anything).Return(true, nil)
		docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return([]advance.AdvancePaymentCredit{}, nil)
		uow.On("Commit", ctx, doc, mock.Anything, mock.Anything).Return(nil)

		_, err := service.SettleDocument(ctx, SettleDocumentRequest{
			DocumentID:     doc.ID,
			IdempotencyKey: "req-1",
		})
		require.NoError(t, err)
	})
}

func TestSettlementService_PreviewSettlement(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()

	docRepo := new(MockReceptionDocumentRepository)
	creditRepo := new(MockCreditRepository)
	uow := new(MockSettlementUnitOfWork)
	service := newTestService(docRepo, creditRepo, uow)

	doc := testDocument(t, supplierID, 100, 10000, 200000)
	credits := []advance.AdvancePaymentCredit{
		testCredit(t, supplierID, "AVC-1", 500000),
	}

	docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
	creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return(credits, nil)

	settlement, err := service.PreviewSettlement(ctx, doc.ID)
	require.NoError(t, err)

	// 1,000,000 total, 200,000 direct, 500,000 allocatable: 300,000 debt.
	assert.Equal(t, advance.PaymentStatusPartiallyPaid, settlement.Status)
	assert.True(t, settlement.TotalApplied.Equal(decimal.NewFromInt(500000)))
	assert.True(t, settlement.FinalDebt.Equal(decimal.NewFromInt(300000)))

	// Nothing was persisted or mutated.
	assert.False(t, doc.IsSettled())
	assert.True(t, credits[0].UsedAmount.IsZero())
	uow.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// =============================================================================
// Event publication
// =============================================================================

type recordingEventPublisher struct {
	published []shared.DomainEvent
}

func (p *recordingEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.published = append(p.published, events...)
	return nil
}

func (p *recordingEventPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.published))
	for _, evt := range p.published {
		types = append(types, evt.EventType())
	}
	return types
}

func TestSettlementService_PublishesEventsAfterCommit(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()

	docRepo := new(MockReceptionDocumentRepository)
	creditRepo := new(MockCreditRepository)
	uow := new(MockSettlementUnitOfWork)
	publisher := &recordingEventPublisher{}
	service := NewSettlementService(docRepo, creditRepo, uow, nil,
		shared.IdempotencyConfig{Enabled: false}, publisher)

	doc := testDocument(t, supplierID, 100, 10000, 0)
	credits := []advance.AdvancePaymentCredit{
		testCredit(t, supplierID, "AVC-1", 400000),
		testCredit(t, supplierID, "AVC-2", 700000),
	}

	docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
	creditRepo.On("FindAvailableBySupplier", ctx, supplierID).Return(credits, nil)
	uow.On("Commit", ctx, doc, mock.Anything, mock.Anything).Return(nil)

	result, err := service.SettleDocument(ctx, SettleDocumentRequest{DocumentID: doc.ID})
	require.NoError(t, err)

	// The settled document and both drawn credits flush their events: the
	// first credit is emptied, the second keeps a remainder.
	types := publisher.eventTypes()
	assert.Contains(t, types, "ReceptionSettled")
	assert.Contains(t, types, "AdvanceCreditExhausted")
	assert.Contains(t, types, "AdvanceCreditDrawn")

	assert.Empty(t, result.Document.GetDomainEvents())
	drawn := uow.Calls[0].Arguments.Get(2).([]*advance.AdvancePaymentCredit)
	for _, credit := range drawn {
		assert.Empty(t, credit.GetDomainEvents())
	}
}
