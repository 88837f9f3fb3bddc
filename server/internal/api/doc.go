// Package api implements the HTTP REST API for slider-server.
//
// New(store) returns an http.Handler that serves:
//
//	GET /api/v1/health                    liveness summary and counts
//	GET /api/v1/liveness                  LivenessStatus
//	GET /api/v1/components                all components ([]ComponentStatus)
//	GET /api/v1/components/{name}         single component; 404 if unknown
//	GET /api/v1/containers                live containers ([]ContainerStatus)
//	GET /api/v1/models                    stored model names
//	GET /api/v1/model/{name}[/{section}]  model document or one of its sections
//	GET /api/v1/snapshot                  full JSON dump plus generated_at
//
// All endpoints return 405 for non-GET methods. Responses are JSON unless
// the Accept header names application/x-protobuf, in which case the
// liveness, component, container and model routes answer with the same
// binary envelope the gRPC service uses.
package api
