package logger

import "context"

// contextKey is a type for context keys used by the logger package
type contextKey string

// requestIDKey is the context key carrying the request ID
const requestIDKey contextKey = "request_id"

// ContextWithRequestID returns a context carrying the request ID. The HTTP
// request-ID middleware stores it here so logs emitted further down the call
// chain, the gorm SQL trace included, correlate with the request.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context, or "" when absent
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
