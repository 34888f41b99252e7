package usecase

import (
	"context"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/utils"
)

// publish announces a mutation. It never blocks the caller on subscribers.
func (uc *ContentUsecase) publish(ctx context.Context, eventType string, domain string, data interface{}) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewChangeEvent(eventType, domain, utils.ActorFromContext(ctx), data))
}

// RecentChanges returns the newest change log entries.
func (uc *ContentUsecase) RecentChanges(ctx context.Context, limit int) ([]model.ChangeEntry, error) {
	if uc.changeLog == nil {
		return []model.ChangeEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	entries, err := uc.changeLog.Recent(ctx, limit)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to read change log.")
	}
	return entries, nil
}
