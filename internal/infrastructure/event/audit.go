package event

import (
	"context"

	"github.com/essencia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes every intake and advance lifecycle event to the
// structured log, giving operators a trail of weighings, settlements and
// credit movements without touching the transactional tables.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes lists every lifecycle event the audit trail records
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		"ReceptionRecorded",
		"ReceptionSettled",
		"AdvanceCreditRegistered",
		"AdvanceCreditConfirmed",
		"AdvanceCreditDrawn",
		"AdvanceCreditExhausted",
		"AdvanceCreditCancelled",
	}
}

// Handle logs the event with its aggregate identity
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
