package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ModeAPIKey is the only auth mode that enforces anything.
const ModeAPIKey = "apikey"

func enabled(mode, key string) bool {
	return mode == ModeAPIKey && key != ""
}

func matches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// APIKeyInterceptor rejects ClusterStatus calls whose metadata does not carry
// key under header with codes.Unauthenticated. It passes everything through
// unless mode is apikey and key is set.
func APIKeyInterceptor(mode, header, key string) grpc.UnaryServerInterceptor {
	header = strings.ToLower(header)
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if !enabled(mode, key) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		var got string
		if vals := md.Get(header); len(vals) > 0 {
			got = vals[0]
		}
		if !matches(got, key) {
			slog.Warn("auth: rejected call", "method", info.FullMethod)
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}

		return handler(ctx, req)
	}
}

// APIKeyMiddleware applies the same check to HTTP requests, reading the key
// from the request header of the same name. Rejected requests get 401.
func APIKeyMiddleware(mode, header, key string, next http.Handler) http.Handler {
	if !enabled(mode, key) {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !matches(r.Header.Get(header), key) {
			slog.Warn("auth: rejected request", "path", r.URL.Path)
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
