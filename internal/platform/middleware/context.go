package middleware

import (
	"context"

	"cartegrise/pkg/domain"
)

// Context keys for request-scoped values set by the middleware chain.
type contextKeyCaller struct{}
type contextKeyRequestID struct{}

// ContextKeyCaller is exported for use in handlers and tests.
var (
	ContextKeyCaller    = contextKeyCaller{}
	ContextKeyRequestID = contextKeyRequestID{}
)

// GetCaller retrieves the authenticated wallet address from the context. The
// zero value means the request was not authenticated.
func GetCaller(ctx context.Context) domain.Address {
	caller, ok := ctx.Value(ContextKeyCaller).(domain.Address)
	if !ok {
		return ""
	}
	return caller
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	if !ok {
		return ""
	}
	return requestID
}
