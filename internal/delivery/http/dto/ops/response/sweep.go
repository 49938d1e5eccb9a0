package response

import "time"

type SweepResponse struct {
	StartedAt          time.Time `json:"started_at"`
	DurationMs         int64     `json:"duration_ms"`
	IssuesExpired      int       `json:"issues_expired"`
	DisputesEscalated  int       `json:"disputes_escalated"`
	DisputesFlagged    int       `json:"disputes_flagged"`
	ClaimsExpired      int       `json:"claims_expired"`
	ClaimsMarkedUrgent int       `json:"claims_marked_urgent"`
	Skipped            int       `json:"skipped"`
	Failed             int       `json:"failed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
