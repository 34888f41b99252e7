package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"welfare-cms/internal/auth/adapter/security"
	"welfare-cms/internal/auth/config"
	"welfare-cms/internal/auth/domain/repository"
	"welfare-cms/internal/auth/usecase"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/eventbus"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken(ctx context.Context, username string) (string, *repository.Claims, error) {
	args := m.Called(ctx, username)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*repository.Claims), args.Error(2)
}

func (m *mockTokenService) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	cfg     *config.Config
	tokens  *mockTokenService
	bus     *eventbus.EventBus
	uc      *usecase.AuthUsecase
	expires time.Time
}

func (s *AuthUsecaseTestSuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.cfg = &config.Config{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecretKey:      "test-secret-key-32-characters-long-12345",
		JWTIssuer:         "welfare-cms",
		AccessTokenTTL:    12 * time.Hour,
	}
	s.tokens = &mockTokenService{}
	s.bus = eventbus.NewEventBus(nil)
	s.uc = usecase.NewAuthUsecase(s.cfg, s.tokens, security.BcryptVerifier{}, s.bus, nil)
	s.expires = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
}

func (s *AuthUsecaseTestSuite) claims(username string) *repository.Claims {
	return &repository.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.expires.Add(-12 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(s.expires),
		},
	}
}

func (s *AuthUsecaseTestSuite) TestLogin_Success() {
	events := make(chan eventbus.Event, 1)
	s.bus.Subscribe(eventbus.EventTypeAdminLoggedIn, func(ctx context.Context, ev eventbus.Event) error {
		events <- ev
		return nil
	})
	s.tokens.On("GenerateToken", mock.Anything, "admin").Return("signed-token", s.claims("admin"), nil)

	resp, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: " admin ", Password: "s3cret-pass"})

	s.Require().NoError(err)
	s.Equal("signed-token", resp.Token)
	s.Equal(s.expires, resp.ExpiresAt.UTC())

	select {
	case ev := <-events:
		s.Equal("admin", eventbus.ActorOf(ev))
	case <-time.After(time.Second):
		s.Fail("admin.logged_in was not published")
	}
	s.tokens.AssertExpectations(s.T())
}

func (s *AuthUsecaseTestSuite) TestLogin_WrongPassword() {
	_, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: "admin", Password: "nope-nope"})

	s.Require().Error(err)
	s.True(apperrors.IsAuthentication(err))
	appErr, ok := apperrors.AsAppError(err)
	s.Require().True(ok)
	s.Equal("Invalid username or password.", appErr.Message)
	s.tokens.AssertNotCalled(s.T(), "GenerateToken", mock.Anything, mock.Anything)
}

func (s *AuthUsecaseTestSuite) TestLogin_WrongUsername() {
	_, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: "root", Password: "s3cret-pass"})

	s.True(apperrors.IsAuthentication(err))
}

func (s *AuthUsecaseTestSuite) TestLogin_MissingFields() {
	_, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: "admin"})

	s.True(apperrors.IsValidation(err))
	s.Equal(400, apperrors.HTTPStatus(err))
}

func (s *AuthUsecaseTestSuite) TestLogin_TokenFailure() {
	s.tokens.On("GenerateToken", mock.Anything, "admin").Return("", nil, errors.New("sign failed"))

	_, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: "admin", Password: "s3cret-pass"})

	s.Equal(500, apperrors.HTTPStatus(err))
}

func (s *AuthUsecaseTestSuite) TestLogin_Disabled() {
	s.cfg.AdminPasswordHash = ""

	_, err := s.uc.Login(context.Background(), usecase.LoginRequest{Username: "admin", Password: "s3cret-pass"})

	s.False(s.uc.Enabled())
	s.Equal(503, apperrors.HTTPStatus(err))
}

func (s *AuthUsecaseTestSuite) TestValidateToken() {
	s.tokens.On("ValidateToken", mock.Anything, "good").Return(s.claims("admin"), nil)
	s.tokens.On("ValidateToken", mock.Anything, "stale-user").Return(s.claims("former-admin"), nil)
	s.tokens.On("ValidateToken", mock.Anything, "bad").Return(nil, security.ErrTokenInvalid)

	claims, err := s.uc.ValidateToken(context.Background(), "good")
	s.Require().NoError(err)
	s.Equal("admin", claims.Username)

	_, err = s.uc.ValidateToken(context.Background(), "stale-user")
	s.True(apperrors.IsAuthentication(err))

	_, err = s.uc.ValidateToken(context.Background(), "bad")
	s.True(apperrors.IsAuthentication(err))
	s.ErrorIs(err, security.ErrTokenInvalid)
}

func (s *AuthUsecaseTestSuite) TestSession() {
	s.tokens.On("ValidateToken", mock.Anything, "good").Return(s.claims("admin"), nil)

	session, err := s.uc.Session(context.Background(), "good")

	s.Require().NoError(err)
	s.Equal("admin", session.Username)
	s.Equal(s.expires, session.ExpiresAt.UTC())
	s.Equal(s.expires.Add(-12*time.Hour), session.IssuedAt.UTC())
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}

func TestLogin_WithRealTokens(t *testing.T) {
	hash, err := security.HashPassword("another-pass")
	require.NoError(t, err)
	cfg := &config.Config{
		AdminUsername:     "editor",
		AdminPasswordHash: hash,
		JWTSecretKey:      "test-secret-key-32-characters-long-12345",
		JWTIssuer:         "welfare-cms",
		AccessTokenTTL:    time.Hour,
	}
	tokens, err := security.NewJWTokenService(cfg)
	require.NoError(t, err)
	uc := usecase.NewAuthUsecase(cfg, tokens, security.BcryptVerifier{}, nil, nil)

	resp, err := uc.Login(context.Background(), usecase.LoginRequest{Username: "editor", Password: "another-pass"})
	require.NoError(t, err)

	claims, err := uc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
}
