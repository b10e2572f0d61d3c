package dto

// AuditLogQuery is the query string of GET /audit-logs. From and To are
// inclusive YYYY-MM-DD dates.
type AuditLogQuery struct {
	ActorID    string `form:"actorId"`
	Action     string `form:"action"`
	Resource   string `form:"resource"`
	ResourceID string `form:"resourceId"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}
