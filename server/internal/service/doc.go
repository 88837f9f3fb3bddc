// Package service implements the slider.v1.ClusterStatus gRPC service.
//
// Reads (liveness, components, live containers, model documents, credential
// stores) are served from the status store through the outbound marshal
// conversions. Updates arrive as wire envelopes and are converted back into
// domain values before they are stored. Model documents are validated as an
// aggregate configuration before they are accepted.
//
// Failures map onto gRPC codes: malformed documents and unknown sections are
// InvalidArgument, unknown components, models and missing credential stores
// are NotFound, an oversized credential store is ResourceExhausted, and other
// read failures are Internal. Authentication is enforced upstream by the
// server interceptor (see package auth).
package service
