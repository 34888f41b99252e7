package content

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"welfare-cms/internal/content/adapter/persistence/memory"
	"welfare-cms/internal/content/config"
	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContentModule_RecordsChanges(t *testing.T) {
	changes := memory.NewChangeLog(10)
	bus := eventbus.NewEventBus(nil)

	module, err := NewContentModule(config.DefaultContentConfig(), NewMemoryStores(), Options{
		Cache:     memory.NewCache(),
		ChangeLog: changes,
		Bus:       bus,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, module.Feed)

	ctx := utils.WithAdminUser(context.Background(), "admin")
	err = module.Usecase.SaveDocument(ctx, model.DomainHome, model.Fields{
		"hero": map[string]interface{}{"title": "Together we care"},
	}, model.DomainHome.WriteMode())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		entries, err := changes.Recent(context.Background(), 10)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	entries, err := module.Usecase.RecentChanges(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, eventbus.EventTypeContentUpdated, entries[0].Type)
	assert.Equal(t, "home", entries[0].Domain)
	assert.Equal(t, "admin", entries[0].Actor)
	assert.NotEmpty(t, entries[0].ID)
}

func TestNewContentModule_InvalidRule(t *testing.T) {
	cfg := config.DefaultContentConfig()
	cfg.SubmissionRejectRule = "message.contains("

	_, err := NewContentModule(cfg, NewMemoryStores(), Options{}, nil)

	assert.ErrorContains(t, err, "SUBMISSION_REJECT_RULE")
}

func TestNewContentModule_RequiresStores(t *testing.T) {
	_, err := NewContentModule(nil, Stores{}, Options{}, nil)
	assert.Error(t, err)
}

func TestContentModule_HealthAndRoutes(t *testing.T) {
	module, err := NewContentModule(nil, NewMemoryStores(), Options{Cache: memory.NewCache()}, nil)
	require.NoError(t, err)
	assert.Nil(t, module.Feed)

	health := module.Health(context.Background())
	assert.NoError(t, health["store"])
	assert.NoError(t, health["cache"])

	app := fiber.New()
	module.RegisterRoutes(app, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/home", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
