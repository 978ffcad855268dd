// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
)

// GenerateRequestID returns a full UUID for X-Request-ID.
func GenerateRequestID() string { return uuid.NewString() }

// GenerateCorrelationID returns the first 8 characters of a UUID. It groups
// the log lines of one prediction and is short enough to quote in support.
func GenerateCorrelationID() string { return uuid.NewString()[:8] }

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// RequestIDFromContext returns "" when ctx carries no request id.
func RequestIDFromContext(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// CorrelationIDFromContext returns "" when ctx carries no correlation id.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// Ctx returns the global logger with the ids carried by ctx attached.
// Handlers log through it so every line of a request can be joined:
//
//	logging.Ctx(r.Context()).Info().Str("crop", crop).Msg("Yield predicted")
func Ctx(ctx context.Context) *zerolog.Logger {
	zctx := Logger().With()
	for _, key := range []contextKey{correlationIDKey, requestIDKey} {
		if id := stringValue(ctx, key); id != "" {
			zctx = zctx.Str(string(key), id)
		}
	}
	l := zctx.Logger()
	return &l
}

// WithComponent tags a child logger, e.g. WithComponent("supervisor").
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
