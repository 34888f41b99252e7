package memory

import (
	"context"
	"sync"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/service"
	apperrors "welfare-cms/internal/shared/errors"
)

// DocumentStore keeps content documents in process memory.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[model.Domain]model.Fields
}

// NewDocumentStore creates an empty store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[model.Domain]model.Fields)}
}

func (s *DocumentStore) Get(ctx context.Context, domain model.Domain) (model.Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[domain]
	if !ok {
		return nil, apperrors.ErrDocumentNotFound
	}
	return model.CloneFields(doc), nil
}

func (s *DocumentStore) Merge(ctx context.Context, domain model.Domain, fields model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[domain] = service.MergeFields(s.docs[domain], fields)
	return nil
}

func (s *DocumentStore) Replace(ctx context.Context, domain model.Domain, fields model.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[domain] = model.CloneFields(fields)
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
