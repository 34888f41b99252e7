package content

import (
	"context"
	"fmt"

	httpadapter "welfare-cms/internal/content/adapter/http"
	"welfare-cms/internal/content/config"
	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/content/domain/service"
	"welfare-cms/internal/content/usecase"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// ContentModule wires the site content stack: stores, cache, change log,
// usecases and the /api routes.
type ContentModule struct {
	Config    *config.ContentConfig
	Stores    Stores
	Cache     repository.ContentCache
	ChangeLog repository.ChangeLog
	Usecase   *usecase.ContentUsecase
	Handler   *httpadapter.HTTPHandler
	Feed      *httpadapter.ChangeFeed
	Logger    logger.Logger
}

// Options carries the optional collaborators of NewContentModule.
type Options struct {
	Cache     repository.ContentCache
	ChangeLog repository.ChangeLog
	Bus       eventbus.EventBusInterface
}

// NewContentModule builds the module over stores. The submission screening
// rule is compiled here, so an invalid SUBMISSION_REJECT_RULE fails start-up.
func NewContentModule(cfg *config.ContentConfig, stores Stores, opts Options, log logger.Logger) (*ContentModule, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg == nil {
		cfg = config.DefaultContentConfig()
	}
	if stores.Documents == nil || stores.Submissions == nil || stores.Gallery == nil {
		return nil, fmt.Errorf("content module requires document, submission and gallery stores")
	}

	rule, err := service.CompileSubmissionRule(cfg.SubmissionRejectRule)
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMISSION_REJECT_RULE: %w", err)
	}
	if rule != nil {
		log.WithFields(map[string]interface{}{"rule": rule.String()}).Info("Submission screening rule active")
	}

	if opts.Bus != nil && opts.ChangeLog != nil {
		subscribeChangeLog(opts.Bus, opts.ChangeLog, log)
	}

	uc := usecase.NewContentUsecase(usecase.Dependencies{
		Documents:      stores.Documents,
		Submissions:    stores.Submissions,
		Gallery:        stores.Gallery,
		Cache:          opts.Cache,
		ChangeLog:      opts.ChangeLog,
		Bus:            opts.Bus,
		SubmissionRule: rule,
		CacheTTL:       cfg.Redis.CacheTTL,
		Logger:         log,
	})

	var feed *httpadapter.ChangeFeed
	if opts.Bus != nil {
		feed = httpadapter.NewChangeFeed(opts.Bus, 32, log)
	}

	log.WithFields(map[string]interface{}{
		"backend": stores.Backend,
		"cache":   opts.Cache != nil,
	}).Info("Content module initialized")

	return &ContentModule{
		Config:    cfg,
		Stores:    stores,
		Cache:     opts.Cache,
		ChangeLog: opts.ChangeLog,
		Usecase:   uc,
		Handler:   httpadapter.NewContentHTTPHandler(uc, feed, log),
		Feed:      feed,
		Logger:    log,
	}, nil
}

// RegisterRoutes mounts /api and /ws/changes. protect guards admin routes.
func (m *ContentModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	m.Handler.RegisterRoutes(router, protect)
}

// Health pings the document store and, when configured, the cache.
func (m *ContentModule) Health(ctx context.Context) map[string]error {
	result := map[string]error{"store": m.Stores.Documents.Ping(ctx)}
	if m.Cache != nil {
		result["cache"] = m.Cache.Ping(ctx)
	}
	return result
}

// subscribeChangeLog records every bus event in the change log.
func subscribeChangeLog(bus eventbus.EventBusInterface, changeLog repository.ChangeLog, log logger.Logger) {
	log = log.WithComponent("change-log")
	bus.Subscribe(eventbus.AllEvents, func(ctx context.Context, ev eventbus.Event) error {
		entry := &model.ChangeEntry{
			Type:      ev.Type(),
			Domain:    eventbus.DomainOf(ev),
			Actor:     eventbus.ActorOf(ev),
			Timestamp: ev.Timestamp(),
			Data:      ev.Data(),
		}
		if err := changeLog.Append(ctx, entry); err != nil {
			log.WithFields(map[string]interface{}{
				"type":  ev.Type(),
				"error": err.Error(),
			}).Warn("Failed to record change")
			return err
		}
		return nil
	})
}
