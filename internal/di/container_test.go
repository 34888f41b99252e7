package di

import (
	"context"
	"testing"
	"time"

	authconfig "welfare-cms/internal/auth/config"
	contentconfig "welfare-cms/internal/content/config"
	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/shared/logger"
	siteconfig "welfare-cms/internal/site/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAuthConfig() *authconfig.Config {
	return &authconfig.Config{
		AdminUsername:    "admin",
		JWTIssuer:        "welfare-cms",
		AccessTokenTTL:   time.Hour,
		CookieName:       "welfare_admin",
		CookiePath:       "/",
		CookieSameSite:   "Lax",
		LoginMaxAttempts: 5,
		LoginWindow:      time.Minute,
	}
}

func TestContainer_InitializeMemory(t *testing.T) {
	c := NewContainer(logger.Nop())
	ctx := context.Background()

	err := c.Initialize(ctx, contentconfig.DefaultContentConfig(), openAuthConfig(), siteconfig.DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, c.GetAuthModule())
	require.NotNil(t, c.GetContentModule())
	require.NotNil(t, c.SiteHandler)
	assert.False(t, c.GetAuthModule().Enabled())
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Mongo)

	health := c.HealthCheck(ctx)
	assert.Contains(t, health, "store")
	assert.NoError(t, health["store"])
	assert.NotContains(t, health, "cache")

	require.NoError(t, c.GetContentModule().Usecase.SaveDocument(ctx, model.DomainAbout, model.Fields{"title": "Who we are"}, model.DomainAbout.WriteMode()))
	assert.Eventually(t, func() bool {
		entries, err := c.ChangeLog().Recent(ctx, 10)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close(ctx))
	assert.Nil(t, c.GetContentModule())
	assert.Nil(t, c.ChangeLog())
}

func TestContainer_SkipsSiteWithoutConfig(t *testing.T) {
	c := NewContainer(logger.Nop())

	require.NoError(t, c.Initialize(context.Background(), contentconfig.DefaultContentConfig(), openAuthConfig(), nil))
	assert.Nil(t, c.SiteHandler)
}

func TestContainer_UnknownBackend(t *testing.T) {
	c := NewContainer(logger.Nop())
	cfg := contentconfig.DefaultContentConfig()
	cfg.Backend = "cassandra"

	err := c.InitializeContent(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown store backend")
}
