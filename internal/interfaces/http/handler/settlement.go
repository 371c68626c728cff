package handler

import (
	advanceapp "github.com/essencia/backend/internal/application/advance"
	"github.com/essencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles settlement of reception documents against
// advance credits
type SettlementHandler struct {
	BaseHandler
	settlementService *advanceapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *advanceapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// RegisterRoutes registers settlement routes
func (h *SettlementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receptions := rg.Group("/intake/receptions")
	{
		receptions.POST("/:id/settlement", h.Settle)
		receptions.GET("/:id/settlement/preview", h.Preview)
	}
}

// Settle godoc
// @Summary      Settle a reception document
// @Description  Allocate the supplier's available advance credits against the document's unpaid remainder and fix its final debt and payment status. An X-Idempotency-Key header guards retries.
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Client retry guard"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions/{id}/settlement [post]
func (h *SettlementHandler) Settle(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	result, err := h.settlementService.SettleDocument(c.Request.Context(), advanceapp.SettleDocumentRequest{
		DocumentID:     documentID,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Preview godoc
// @Summary      Preview a settlement
// @Description  Compute what settling the document would do without drawing anything
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /intake/receptions/{id}/settlement/preview [get]
func (h *SettlementHandler) Preview(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	settlement, err := h.settlementService.PreviewSettlement(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settlement)
}
