package testutil

import (
	"context"
	"net/http"

	"cartegrise/internal/platform/middleware"
	"cartegrise/pkg/domain"
)

// WithCaller adds an authenticated wallet address to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If addr is not a valid address, it is not added to the context.
func WithCaller(req *http.Request, addr string) *http.Request {
	if parsed, err := domain.ParseAddress(addr); err == nil {
		ctx := context.WithValue(req.Context(), middleware.ContextKeyCaller, parsed)
		return req.WithContext(ctx)
	}
	return req
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
