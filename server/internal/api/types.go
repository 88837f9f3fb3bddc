package api

import "github.com/sliderstack/sliderstack/pkg/types"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State                string `json:"state"` // satisfied | pending
	AllRequestsSatisfied bool   `json:"all_requests_satisfied"`
	RequestsOutstanding  int32  `json:"requests_outstanding"`
	ComponentCount       int    `json:"component_count"`
	ContainerCount       int    `json:"container_count"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot.
type SnapshotResponse struct {
	Liveness    types.LivenessStatus    `json:"liveness"`
	Components  []types.ComponentStatus `json:"components"`
	Containers  []types.ContainerStatus `json:"containers"`
	Models      []string                `json:"models"`
	GeneratedAt string                  `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
