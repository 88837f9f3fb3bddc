// Package auth provides API key authentication for slider-server.
//
// APIKeyInterceptor(mode, header, key) guards the ClusterStatus gRPC service;
// APIKeyMiddleware guards the REST API with the same key and header name.
//
// When mode != "apikey" or key == "", everything passes through (local
// development with auth disabled). Keys are compared in constant time.
package auth
