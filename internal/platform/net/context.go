// Package net carries request scoped identifiers across transport layers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores id where the chi RequestID middleware would
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// RequestID returns the request id, empty when none was assigned
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
