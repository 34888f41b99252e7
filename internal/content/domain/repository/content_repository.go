package repository

import (
	"context"

	"welfare-cms/internal/content/domain/model"
)

// DocumentStore persists one schemaless document per content domain.
//
// Get returns errors.ErrDocumentNotFound (shared/errors) when the domain has
// never been written. Merge and Replace upsert: the document is created on the
// first write.
type DocumentStore interface {
	Get(ctx context.Context, domain model.Domain) (model.Fields, error)
	Merge(ctx context.Context, domain model.Domain, fields model.Fields) error
	Replace(ctx context.Context, domain model.Domain, fields model.Fields) error
	Ping(ctx context.Context) error
}

// Write dispatches to Merge or Replace according to mode.
func Write(ctx context.Context, store DocumentStore, domain model.Domain, fields model.Fields, mode model.WriteMode) error {
	if mode == model.WriteModeReplace {
		return store.Replace(ctx, domain, fields)
	}
	return store.Merge(ctx, domain, fields)
}
