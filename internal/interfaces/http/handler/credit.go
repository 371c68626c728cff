package handler

import (
	advanceapp "github.com/essencia/backend/internal/application/advance"
	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditHandler handles advance credit endpoints
type CreditHandler struct {
	BaseHandler
	creditService *advanceapp.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *advanceapp.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// RegisterRoutes registers credit routes
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	credits := rg.Group("/advance/credits")
	{
		credits.POST("", h.Register)
		credits.GET("", h.List)
		credits.GET("/:id", h.GetByID)
		credits.POST("/:id/confirm", h.Confirm)
		credits.POST("/:id/cancel", h.Cancel)
	}
	rg.GET("/advance/suppliers/:supplier_id/available-balance", h.AvailableBalance)
}

// RegisterCreditRequest represents a request to register a supplier advance
type RegisterCreditRequest struct {
	CreditNumber string `json:"credit_number" binding:"required,min=1,max=50" example:"AV-2025-0007"`
	SupplierID   string `json:"supplier_id" binding:"required,uuid" example:"7b5a72cd-09f1-4d64-a29c-8f14f3bb8f11"`
	SupplierName string `json:"supplier_name" binding:"required,min=1,max=200" example:"Vanille SARL"`
	TotalAmount  string `json:"total_amount" binding:"required" example:"1000000"`
	Remark       string `json:"remark" example:"campaign advance"`
	AutoConfirm  bool   `json:"auto_confirm" example:"true"`
}

// Register godoc
// @Summary      Register an advance credit
// @Description  Register an advance paid out to a supplier; confirm it to make it allocatable
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        request body RegisterCreditRequest true "Credit to register"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /advance/credits [post]
func (h *CreditHandler) Register(c *gin.Context) {
	var req RegisterCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}
	totalAmount, err := parseDecimal("total_amount", req.TotalAmount)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	credit, err := h.creditService.RegisterCredit(c.Request.Context(), advanceapp.RegisterCreditRequest{
		CreditNumber: req.CreditNumber,
		SupplierID:   supplierID,
		SupplierName: req.SupplierName,
		TotalAmount:  totalAmount,
		Remark:       req.Remark,
		AutoConfirm:  req.AutoConfirm,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, credit)
}

// Confirm godoc
// @Summary      Confirm a pending credit
// @Tags         credits
// @Produce      json
// @Param        id path string true "Credit ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /advance/credits/{id}/confirm [post]
func (h *CreditHandler) Confirm(c *gin.Context) {
	creditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit ID format")
		return
	}

	credit, err := h.creditService.ConfirmCredit(c.Request.Context(), creditID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// CancelCreditRequest represents a request to cancel a credit's remainder
type CancelCreditRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"supplier contract terminated"`
}

// Cancel godoc
// @Summary      Cancel a credit
// @Description  Void the unused remainder of a credit; the used portion is kept as history
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        id path string true "Credit ID" format(uuid)
// @Param        request body CancelCreditRequest true "Cancellation reason"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /advance/credits/{id}/cancel [post]
func (h *CreditHandler) Cancel(c *gin.Context) {
	creditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit ID format")
		return
	}

	var req CancelCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	credit, err := h.creditService.CancelCredit(c.Request.Context(), creditID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// GetByID godoc
// @Summary      Get credit by ID
// @Tags         credits
// @Produce      json
// @Param        id path string true "Credit ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /advance/credits/{id} [get]
func (h *CreditHandler) GetByID(c *gin.Context) {
	creditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit ID format")
		return
	}

	credit, err := h.creditService.GetCredit(c.Request.Context(), creditID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// ListCreditsRequest represents list query parameters
type ListCreditsRequest struct {
	dto.ListRequest
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING AVAILABLE EXHAUSTED CANCELLED"`
}

// List godoc
// @Summary      List credits
// @Tags         credits
// @Produce      json
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        status query string false "Credit status" Enums(PENDING, AVAILABLE, EXHAUSTED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Router       /advance/credits [get]
func (h *CreditHandler) List(c *gin.Context) {
	var req ListCreditsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := advance.CreditFilter{}
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
		status := advance.CreditStatus(req.Status)
		filter.Status = &status
	}

	page, err := h.creditService.ListCredits(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AvailableBalance godoc
// @Summary      Get a supplier's available advance balance
// @Tags         credits
// @Produce      json
// @Param        supplier_id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response
// @Router       /advance/suppliers/{supplier_id}/available-balance [get]
func (h *CreditHandler) AvailableBalance(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("supplier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	balance, err := h.creditService.GetSupplierAvailableBalance(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"supplier_id":       supplierID,
		"available_balance": balance,
	})
}
