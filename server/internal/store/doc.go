// Package store holds the in-memory status of one application: liveness,
// components, live containers and model documents. Containers that stop
// reporting are evicted after a TTL.
package store
