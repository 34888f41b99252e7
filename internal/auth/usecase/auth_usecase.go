package usecase

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"welfare-cms/internal/auth/config"
	"welfare-cms/internal/auth/domain/model"
	"welfare-cms/internal/auth/domain/repository"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"
)

// AuthUsecaseInterface defines the contract for admin authentication.
type AuthUsecaseInterface interface {
	Enabled() bool
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	Session(ctx context.Context, tokenString string) (*model.Session, error)
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase authenticates the single configured administrator.
type AuthUsecase struct {
	cfg      *config.Config
	tokens   repository.TokenService
	verifier repository.PasswordVerifier
	bus      eventbus.EventBusInterface
	log      logger.Logger
}

// NewAuthUsecase creates a new AuthUsecase. tokens may be nil when auth is
// disabled; bus may be nil.
func NewAuthUsecase(cfg *config.Config, tokens repository.TokenService, verifier repository.PasswordVerifier, bus eventbus.EventBusInterface, log logger.Logger) *AuthUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUsecase{
		cfg:      cfg,
		tokens:   tokens,
		verifier: verifier,
		bus:      bus,
		log:      log.WithComponent("auth"),
	}
}

// Enabled reports whether credentials and a signing key are configured.
func (uc *AuthUsecase) Enabled() bool {
	return uc.cfg.Enabled() && uc.tokens != nil
}

// Login checks the credentials and issues a token.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if !uc.Enabled() {
		return nil, apperrors.NewAppError(apperrors.ErrorTypeInfrastructure, "Authentication is not configured", http.StatusServiceUnavailable).
			WithCode("auth_disabled").WithCause(model.ErrAuthDisabled)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("Username and password are required.")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.cfg.AdminUsername)) == 1
	passErr := uc.verifier.Compare(uc.cfg.AdminPasswordHash, req.Password)
	if !userOK || passErr != nil {
		uc.log.WithContext(ctx).WithFields(map[string]interface{}{
			"username": username,
		}).Warn("Admin login failed")
		return nil, apperrors.NewAuthenticationError("Invalid username or password.").WithCause(model.ErrInvalidCredentials)
	}

	token, claims, err := uc.tokens.GenerateToken(ctx, uc.cfg.AdminUsername)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to issue token.").WithCause(err)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"username": uc.cfg.AdminUsername,
	}).Info("Admin logged in")

	if uc.bus != nil {
		uc.bus.PublishAndForget(ctx, eventbus.NewChangeEvent(
			eventbus.EventTypeAdminLoggedIn, "admin", uc.cfg.AdminUsername, nil))
	}

	return &LoginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ValidateToken returns the claims of a valid admin token.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if !uc.Enabled() {
		return nil, apperrors.NewAuthenticationError("Authentication is not configured").WithCause(model.ErrAuthDisabled)
	}
	claims, err := uc.tokens.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("Invalid token").WithCause(err)
	}
	if claims.Username != uc.cfg.AdminUsername {
		return nil, apperrors.NewAuthenticationError("Invalid token").WithCause(apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// Session describes the admin session carried by tokenString.
func (uc *AuthUsecase) Session(ctx context.Context, tokenString string) (*model.Session, error) {
	claims, err := uc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	session := &model.Session{Username: claims.Username}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
