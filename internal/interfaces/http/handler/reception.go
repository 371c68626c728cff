package handler

import (
	intakeapp "github.com/essencia/backend/internal/application/intake"
	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/intake"
	"github.com/essencia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceptionHandler handles raw-material reception endpoints
type ReceptionHandler struct {
	BaseHandler
	receptionService *intakeapp.ReceptionService
}

// NewReceptionHandler creates a new ReceptionHandler
func NewReceptionHandler(receptionService *intakeapp.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{receptionService: receptionService}
}

// RegisterRoutes registers reception routes
func (h *ReceptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receptions := rg.Group("/intake/receptions")
	{
		receptions.POST("", h.Record)
		receptions.GET("", h.List)
		receptions.GET("/:id", h.GetByID)
		receptions.GET("/number/:number", h.GetByNumber)
		receptions.POST("/:id/corrections", h.Correct)
	}
	rg.GET("/intake/suppliers/:supplier_id/outstanding-debt", h.OutstandingDebt)
}

// RecordReceptionRequest represents a request to record a weighed intake.
// Weights, rates and amounts are decimal strings.
type RecordReceptionRequest struct {
	DocumentNumber        string  `json:"document_number" binding:"required,min=1,max=50" example:"BR-2025-0042"`
	SupplierID            string  `json:"supplier_id" binding:"required,uuid" example:"7b5a72cd-09f1-4d64-a29c-8f14f3bb8f11"`
	SupplierName          string  `json:"supplier_name" binding:"required,min=1,max=200" example:"Vanille SARL"`
	Material              string  `json:"material" binding:"required,min=1,max=100" example:"clous de girofle"`
	GrossWeight           string  `json:"gross_weight" binding:"required" example:"120.5"`
	PackagingWeight       string  `json:"packaging_weight" example:"5.5"`
	MoistureRate          *string `json:"moisture_rate" example:"12"`
	DesiccationTargetRate *string `json:"desiccation_target_rate" example:"8"`
	UnitPrice             string  `json:"unit_price" binding:"required" example:"10000"`
	AmountPaidDirectly    string  `json:"amount_paid_directly" example:"200000"`
	Remark                string  `json:"remark" example:"first lot of the season"`
}

func (r RecordReceptionRequest) toAppRequest() (intakeapp.RecordReceptionRequest, error) {
	var req intakeapp.RecordReceptionRequest
	var err error

	supplierID, err := uuid.Parse(r.SupplierID)
	if err != nil {
		return req, err
	}
	req.SupplierID = supplierID
	req.DocumentNumber = r.DocumentNumber
	req.SupplierName = r.SupplierName
	req.Material = r.Material
	req.Remark = r.Remark

	if req.GrossWeight, err = parseDecimal("gross_weight", r.GrossWeight); err != nil {
		return req, err
	}
	if req.PackagingWeight, err = parseDecimalOrZero("packaging_weight", r.PackagingWeight); err != nil {
		return req, err
	}
	if req.MoistureRate, err = parseOptionalDecimal("moisture_rate", r.MoistureRate); err != nil {
		return req, err
	}
	if req.DesiccationTargetRate, err = parseOptionalDecimal("desiccation_target_rate", r.DesiccationTargetRate); err != nil {
		return req, err
	}
	if req.UnitPrice, err = parseDecimal("unit_price", r.UnitPrice); err != nil {
		return req, err
	}
	if req.AmountPaidDirectly, err = parseDecimalOrZero("amount_paid_directly", r.AmountPaidDirectly); err != nil {
		return req, err
	}

	return req, nil
}

// Record godoc
// @Summary      Record a raw-material reception
// @Description  Record a weighed intake; net weight and total price are computed on the spot
// @Tags         receptions
// @Accept       json
// @Produce      json
// @Param        request body RecordReceptionRequest true "Reception to record"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions [post]
func (h *ReceptionHandler) Record(c *gin.Context) {
	var req RecordReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	appReq, err := req.toAppRequest()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.receptionService.RecordReception(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// CorrectReceptionRequest represents a request to correct an earlier intake
// with a compensating document
type CorrectReceptionRequest struct {
	DocumentNumber        string  `json:"document_number" binding:"required,min=1,max=50" example:"BR-2025-0042-C1"`
	GrossWeight           string  `json:"gross_weight" binding:"required" example:"118.0"`
	PackagingWeight       string  `json:"packaging_weight" example:"5.5"`
	MoistureRate          *string `json:"moisture_rate" example:"12"`
	DesiccationTargetRate *string `json:"desiccation_target_rate" example:"8"`
	UnitPrice             string  `json:"unit_price" binding:"required" example:"10000"`
	AmountPaidDirectly    string  `json:"amount_paid_directly" example:"200000"`
	Reason                string  `json:"reason" binding:"required,min=1,max=500" example:"scale misread, re-weighed"`
}

// Correct godoc
// @Summary      Correct a reception
// @Description  Record a compensating document for an earlier reception; the original stays untouched
// @Tags         receptions
// @Accept       json
// @Produce      json
// @Param        id path string true "Original document ID" format(uuid)
// @Param        request body CorrectReceptionRequest true "Correction to record"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions/{id}/corrections [post]
func (h *ReceptionHandler) Correct(c *gin.Context) {
	originalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req CorrectReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	appReq := intakeapp.CorrectReceptionRequest{
		OriginalDocumentID: originalID,
		DocumentNumber:     req.DocumentNumber,
		Reason:             req.Reason,
	}
	if appReq.GrossWeight, err = parseDecimal("gross_weight", req.GrossWeight); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if appReq.PackagingWeight, err = parseDecimalOrZero("packaging_weight", req.PackagingWeight); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if appReq.MoistureRate, err = parseOptionalDecimal("moisture_rate", req.MoistureRate); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if appReq.DesiccationTargetRate, err = parseOptionalDecimal("desiccation_target_rate", req.DesiccationTargetRate); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if appReq.UnitPrice, err = parseDecimal("unit_price", req.UnitPrice); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if appReq.AmountPaidDirectly, err = parseDecimalOrZero("amount_paid_directly", req.AmountPaidDirectly); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.receptionService.CorrectReception(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetByID godoc
// @Summary      Get reception by ID
// @Tags         receptions
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions/{id} [get]
func (h *ReceptionHandler) GetByID(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.receptionService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByNumber godoc
// @Summary      Get reception by document number
// @Tags         receptions
// @Produce      json
// @Param        number path string true "Document number"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions/number/{number} [get]
func (h *ReceptionHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	doc, err := h.receptionService.GetDocumentByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// ListReceptionsRequest represents list query parameters
type ListReceptionsRequest struct {
	dto.ListRequest
	SupplierID    string `form:"supplier_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=RECORDED SETTLED"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=PAID PARTIALLY_PAID AWAITING_PAYMENT"`
	Material      string `form:"material"`
}

// List godoc
// @Summary      List receptions
// @Tags         receptions
// @Produce      json
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        status query string false "Document status" Enums(RECORDED, SETTLED)
// @Param        payment_status query string false "Payment status" Enums(PAID, PARTIALLY_PAID, AWAITING_PAYMENT)
// @Param        material query string false "Material"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Router       /intake/receptions [get]
func (h *ReceptionHandler) List(c *gin.Context) {
	var req ListReceptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := intake.ReceptionDocumentFilter{}
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	if req.SupplierID != "" {
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &supplierID
	}
	if req.Status != "" {
		status := intake.DocumentStatus(req.Status)
		filter.Status = &status
	}
	if req.PaymentStatus != "" {
		paymentStatus := advance.PaymentStatus(req.PaymentStatus)
		filter.PaymentStatus = &paymentStatus
	}
	if req.Material != "" {
		filter.Material = &req.Material
	}

	page, err := h.receptionService.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// OutstandingDebt godoc
// @Summary      Get a supplier's outstanding debt
// @Description  Sum of final debts across the supplier's settled, not fully paid documents
// @Tags         receptions
// @Produce      json
// @Param        supplier_id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response
// @Router       /intake/suppliers/{supplier_id}/outstanding-debt [get]
func (h *ReceptionHandler) OutstandingDebt(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	debt, err := h.receptionService.GetSupplierOutstandingDebt(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"supplier_id":      supplierID,
		"outstanding_debt": debt,
	})
}
