package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	patronEmailKey contextKey = "patronEmail"
	patronNameKey  contextKey = "patronName"
	requestIDKey   contextKey = "requestID"
)

// PatronEmailFrom retrieves the authenticated patron's email from the request context.
func PatronEmailFrom(r *http.Request) string {
	if v, ok := r.Context().Value(patronEmailKey).(string); ok {
		return v
	}
	return ""
}

// PatronNameFrom retrieves the authenticated patron's display name.
func PatronNameFrom(r *http.Request) string {
	if v, ok := r.Context().Value(patronNameKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithPatron returns a new context carrying the patron identity.
func ContextWithPatron(ctx context.Context, email, name string) context.Context {
	ctx = context.WithValue(ctx, patronEmailKey, email)
	return context.WithValue(ctx, patronNameKey, name)
}

// RequestIDFrom retrieves the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
