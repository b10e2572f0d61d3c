package dto

// CreateSessionRequest opens a new academic session.
type CreateSessionRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}
