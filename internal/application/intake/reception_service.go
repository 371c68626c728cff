package intake

import (
	"context"
	"fmt"

	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceptionService handles recording and querying raw-material receptions
type ReceptionService struct {
	docRepo intake.ReceptionDocumentRepository
	events  shared.EventPublisher
}

// NewReceptionService creates a new ReceptionService. A nil publisher
// disables event delivery.
func NewReceptionService(docRepo intake.ReceptionDocumentRepository, events shared.EventPublisher) *ReceptionService {
	return &ReceptionService{docRepo: docRepo, events: events}
}

// RecordReceptionRequest represents a request to record an intake
type RecordReceptionRequest struct {
	DocumentNumber        string
	SupplierID            uuid.UUID
	SupplierName          string
	Material              string
	GrossWeight           decimal.Decimal
	PackagingWeight       decimal.Decimal
	MoistureRate          *decimal.Decimal
	DesiccationTargetRate *decimal.Decimal
	UnitPrice             decimal.Decimal
	AmountPaidDirectly    decimal.Decimal
	Remark                string
}

func (r RecordReceptionRequest) measurement() intake.WeighingMeasurement {
	return intake.WeighingMeasurement{
		GrossWeight:           valueobject.NewWeight(r.GrossWeight),
		PackagingWeight:       valueobject.NewWeight(r.PackagingWeight),
		MoistureRate:          r.MoistureRate,
		DesiccationTargetRate: r.DesiccationTargetRate,
	}
}

// RecordReception records a weighed intake. Net weight and total price are
// computed at creation; the document stays RECORDED until it is settled.
func (s *ReceptionService) RecordReception(ctx context.Context, req RecordReceptionRequest) (*intake.ReceptionDocument, error) {
	existing, err := s.docRepo.FindByDocumentNumber(ctx, req.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check document number: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_DOCUMENT_NUMBER",
			fmt.Sprintf("Document number %s already exists", req.DocumentNumber))
	}

	doc, err := intake.NewReceptionDocument(
		req.DocumentNumber,
		req.SupplierID,
		req.SupplierName,
		req.Material,
		req.measurement(),
		valueobject.NewMoneyMGA(req.UnitPrice),
		valueobject.NewMoneyMGA(req.AmountPaidDirectly),
	)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		doc.Remark = req.Remark
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	shared.PublishAndClear(ctx, s.events, doc)

	return doc, nil
}

// CorrectReceptionRequest represents a request to correct an earlier intake
// with a new compensating document
type CorrectReceptionRequest struct {
	OriginalDocumentID    uuid.UUID
	DocumentNumber        string
	GrossWeight           decimal.Decimal
	PackagingWeight       decimal.Decimal
	MoistureRate          *decimal.Decimal
	DesiccationTargetRate *decimal.Decimal
	UnitPrice             decimal.Decimal
	AmountPaidDirectly    decimal.Decimal
	Reason                string
}

func (r CorrectReceptionRequest) measurement() intake.WeighingMeasurement {
	return intake.WeighingMeasurement{
		GrossWeight:           valueobject.NewWeight(r.GrossWeight),
		PackagingWeight:       valueobject.NewWeight(r.PackagingWeight),
		MoistureRate:          r.MoistureRate,
		DesiccationTargetRate: r.DesiccationTargetRate,
	}
}

// CorrectReception records a compensating document for an earlier intake.
// The original is never modified; the correction references it and goes
// through the same weighing and pricing pipeline.
func (s *ReceptionService) CorrectReception(ctx context.Context, req CorrectReceptionRequest) (*intake.ReceptionDocument, error) {
	if req.Reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Correction reason is required")
	}

	original, err := s.getDocument(ctx, req.OriginalDocumentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.docRepo.FindByDocumentNumber(ctx, req.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check document number: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_DOCUMENT_NUMBER",
			fmt.Sprintf("Document number %s already exists", req.DocumentNumber))
	}

	doc, err := intake.NewCorrectionDocument(
		original,
		req.DocumentNumber,
		req.measurement(),
		valueobject.NewMoneyMGA(req.UnitPrice),
		valueobject.NewMoneyMGA(req.AmountPaidDirectly),
		req.Reason,
	)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save correction: %w", err)
	}
	shared.PublishAndClear(ctx, s.events, doc)

	return doc, nil
}

// GetDocument returns a reception document by ID
func (s *ReceptionService) GetDocument(ctx context.Context, documentID uuid.UUID) (*intake.ReceptionDocument, error) {
	return s.getDocument(ctx, documentID)
}

// GetDocumentByNumber returns a reception document by its document number
func (s *ReceptionService) GetDocumentByNumber(ctx context.Context, documentNumber string) (*intake.ReceptionDocument, error) {
	doc, err := s.docRepo.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Reception document not found")
	}
	return doc, nil
}

// ListDocuments returns documents matching the filter with pagination
func (s *ReceptionService) ListDocuments(ctx context.Context, filter intake.ReceptionDocumentFilter) (*shared.Paginated[intake.ReceptionDocument], error) {
	docs, err := s.docRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	total, err := s.docRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	result := shared.NewPaginated(docs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetSupplierOutstandingDebt sums the final debt still owed to a supplier
// across their settled documents
func (s *ReceptionService) GetSupplierOutstandingDebt(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	if supplierID == uuid.Nil {
		return decimal.Zero, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	sum, err := s.docRepo.SumOutstandingDebt(ctx, supplierID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding debt: %w", err)
	}

	return sum, nil
}

func (s *ReceptionService) getDocument(ctx context.Context, documentID uuid.UUID) (*intake.ReceptionDocument, error) {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "Reception document not found")
	}
	return doc, nil
}
