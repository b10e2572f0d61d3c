package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/models"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// recordAudit writes an audit entry. Failures are logged and never returned.
func recordAudit(ctx context.Context, sink auditLogger, logger *zap.Logger, entry *models.AuditLog) {
	if sink == nil {
		return
	}
	if err := sink.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log",
			zap.String("action", entry.Action),
			zap.String("resource", entry.Resource),
			zap.Error(err))
	}
}

func auditPayload(value interface{}) []byte {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return payload
}

func actorIDPtr(actor models.Actor) *string {
	if actor.ID == "" {
		return nil
	}
	id := actor.ID
	return &id
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	result := value
	return &result
}
