package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// ChangeLogStream is the stream key holding the admin change log.
const ChangeLogStream = "welfare:changes"

// ChangeLog keeps change entries in a capped Redis stream. Entry ids are the
// stream message ids.
type ChangeLog struct {
	client *redis.Client
	maxLen int64
	logger logger.Logger
}

func NewChangeLog(client *redis.Client, maxLen int64, log logger.Logger) *ChangeLog {
	if maxLen <= 0 {
		maxLen = 1000
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChangeLog{client: client, maxLen: maxLen, logger: log.WithComponent("redis-change-log")}
}

func (l *ChangeLog) Append(ctx context.Context, entry *model.ChangeEntry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}

	id, err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ChangeLogStream,
		MaxLen: l.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":      entry.Type,
			"domain":    entry.Domain,
			"actor":     entry.Actor,
			"timestamp": entry.Timestamp.UnixNano(),
			"data":      data,
		},
	}).Result()
	if err != nil {
		l.logger.WithFields(map[string]interface{}{
			"stream": ChangeLogStream,
			"type":   entry.Type,
			"error":  err.Error(),
		}).Error("Failed to append change entry")
		return err
	}
	entry.ID = id
	return nil
}

func (l *ChangeLog) Recent(ctx context.Context, limit int) ([]model.ChangeEntry, error) {
	msgs, err := l.client.XRevRangeN(ctx, ChangeLogStream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.ChangeEntry, 0, len(msgs))
	for _, msg := range msgs {
		entry, err := parseEntry(msg)
		if err != nil {
			l.logger.WithFields(map[string]interface{}{"messageId": msg.ID, "error": err.Error()}).Warn("Skipping unreadable change entry")
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func parseEntry(msg redis.XMessage) (model.ChangeEntry, error) {
	entry := model.ChangeEntry{ID: msg.ID}
	entry.Type, _ = msg.Values["type"].(string)
	entry.Domain, _ = msg.Values["domain"].(string)
	entry.Actor, _ = msg.Values["actor"].(string)

	if raw, ok := msg.Values["timestamp"].(string); ok {
		nanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return entry, err
		}
		entry.Timestamp = time.Unix(0, nanos).UTC()
	}
	if raw, ok := msg.Values["data"].(string); ok && raw != "" && raw != "null" {
		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return entry, err
		}
		entry.Data = data
	}
	return entry, nil
}
