package firestore

import (
	"context"

	"welfare-cms/internal/content/domain/model"
	apperrors "welfare-cms/internal/shared/errors"

	"cloud.google.com/go/firestore"
)

// DocumentStore keeps each domain as a document of one collection, the layout
// the site has always used ("siteConfig/homeData", ...).
type DocumentStore struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func NewDocumentStore(client *firestore.Client, collection string) *DocumentStore {
	return &DocumentStore{client: client, col: client.Collection(collection)}
}

func (s *DocumentStore) Get(ctx context.Context, domain model.Domain) (model.Fields, error) {
	snap, err := s.col.Doc(domain.DocumentID()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return snap.Data(), nil
}

// Merge writes every leaf of fields. Nested maps merge; lists replace.
func (s *DocumentStore) Merge(ctx context.Context, domain model.Domain, fields model.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := s.col.Doc(domain.DocumentID()).Set(ctx, map[string]interface{}(fields), firestore.MergeAll)
	return err
}

func (s *DocumentStore) Replace(ctx context.Context, domain model.Domain, fields model.Fields) error {
	_, err := s.col.Doc(domain.DocumentID()).Set(ctx, map[string]interface{}(fields))
	return err
}

// Ping reads a document id that is never written; NotFound proves connectivity.
func (s *DocumentStore) Ping(ctx context.Context) error {
	_, err := s.col.Doc("_health").Get(ctx)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
