package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("authentication is not configured")
)

// Admin is the single site administrator.
type Admin struct {
	Username string `json:"username"`
}

// Session describes an issued admin token.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
