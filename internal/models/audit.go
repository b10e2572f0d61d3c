package models

import (
	"context"
	"time"
)

// Audit actions recorded after successful mutations.
const (
	AuditActionUploadScore     = "UPLOAD_SCORE"
	AuditActionUpdateScore     = "UPDATE_SCORE"
	AuditActionSubmitResults   = "SUBMIT_RESULTS"
	AuditActionApproveResults  = "APPROVE_RESULTS"
	AuditActionRejectResults   = "REJECT_RESULTS"
	AuditActionPublishResults  = "PUBLISH_RESULTS"
	AuditActionOverrideGrade   = "OVERRIDE_GRADE"
	AuditActionLockSemester    = "LOCK_SEMESTER"
	AuditActionUnlockSemester  = "UNLOCK_SEMESTER"
	AuditActionCreateSession   = "CREATE_SESSION"
	AuditActionActivateSession = "ACTIVATE_SESSION"
	AuditActionConfigUpdate    = "UPDATE_SETTING"
	AuditActionGradingCreate   = "CREATE_GRADING_BAND"
	AuditActionGradingUpdate   = "UPDATE_GRADING_BAND"
	AuditActionGradingDelete   = "DELETE_GRADING_BAND"
	AuditActionGradingDefaults = "INITIALIZE_GRADING"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	ActorID     *string   `db:"actor_id" json:"actor_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	Resource    string    `db:"resource" json:"resource"`
	ResourceID  *string   `db:"resource_id" json:"resource_id,omitempty"`
	Description string    `db:"description" json:"description"`
	OldValues   []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues   []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress   *string   `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent   *string   `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AuditLogFilter narrows an audit trail listing. Zero values are ignored.
type AuditLogFilter struct {
	ActorID    string
	Action     string
	Resource   string
	ResourceID string
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

// RequestOrigin identifies the client behind an audited action.
type RequestOrigin struct {
	IPAddress string
	UserAgent string
}

type requestOriginKey struct{}

// WithRequestOrigin attaches origin to ctx.
func WithRequestOrigin(ctx context.Context, origin RequestOrigin) context.Context {
	return context.WithValue(ctx, requestOriginKey{}, origin)
}

// RequestOriginFrom returns the origin stored by WithRequestOrigin.
func RequestOriginFrom(ctx context.Context) (RequestOrigin, bool) {
	origin, ok := ctx.Value(requestOriginKey{}).(RequestOrigin)
	return origin, ok
}
