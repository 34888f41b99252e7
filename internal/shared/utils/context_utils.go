package utils

import (
	"context"
	"errors"

	"welfare-cms/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrAdminUserNotFound  = errors.New("adminUser not found in context")
	ErrAdminUserNotString = errors.New("adminUser in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetAdminUserFromContext retrieves the authenticated admin username from the context.
func GetAdminUserFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.AdminUserKey)
	if val == nil {
		return "", ErrAdminUserNotFound
	}
	user, ok := val.(string)
	if !ok {
		return "", ErrAdminUserNotString
	}
	return user, nil
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithAdminUser returns a copy of ctx carrying the admin username.
func WithAdminUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, contextkeys.AdminUserKey, user)
}

// ActorFromContext returns the admin username or "anonymous".
func ActorFromContext(ctx context.Context) string {
	if user, err := GetAdminUserFromContext(ctx); err == nil && user != "" {
		return user
	}
	return "anonymous"
}
