package api

import "github.com/pageza/glucolink/backend/internal/types"

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// LinkResponse is returned after a successful code redemption.
type LinkResponse struct {
	Message string               `json:"message"`
	Patient types.PatientSummary `json:"patient"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
