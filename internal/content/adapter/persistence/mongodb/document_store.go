package mongodb

import (
	"context"
	"errors"
	"strings"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/service"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore keeps each content domain as one document of the content
// collection, keyed by the domain's document id ("homeData", ...).
type DocumentStore struct {
	col    CollectionInterface
	ping   func(ctx context.Context) error
	logger logger.Logger
}

// NewDocumentStore creates a store over col. ping may be nil.
func NewDocumentStore(col CollectionInterface, ping func(ctx context.Context) error, log logger.Logger) *DocumentStore {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentStore{col: col, ping: ping, logger: log.WithComponent("mongo-document-store")}
}

func byDocumentID(domain model.Domain) bson.M {
	return bson.M{"_id": domain.DocumentID()}
}

func (s *DocumentStore) Get(ctx context.Context, domain model.Domain) (model.Fields, error) {
	var raw bson.M
	if err := s.col.FindOne(ctx, byDocumentID(domain)).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return toFields(raw), nil
}

// Merge sets every submitted leaf by dotted path, leaving other stored fields
// alone. A path running through a stored non-object value sets that value
// whole instead, since $set cannot create a field inside a scalar.
func (s *DocumentStore) Merge(ctx context.Context, domain model.Domain, fields model.Fields) error {
	flat := service.FlattenFields(fields)
	if len(flat) == 0 {
		return nil
	}

	var stored, merged model.Fields
	if hasNestedPath(flat) {
		var err error
		stored, err = s.Get(ctx, domain)
		if err != nil && !errors.Is(err, apperrors.ErrDocumentNotFound) {
			return err
		}
		merged = service.MergeFields(stored, fields)
	}

	set := bson.M{}
	for path, v := range flat {
		if prefix, ok := blockedPrefix(stored, path); ok {
			set[prefix] = valueAt(merged, prefix)
			continue
		}
		set[path] = v
	}
	_, err := s.col.UpdateOne(ctx, byDocumentID(domain), bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		s.logger.WithContext(ctx).Errorf("Merge of %s failed: %v", domain.DocumentID(), err)
	}
	return err
}

func hasNestedPath(flat map[string]interface{}) bool {
	for path := range flat {
		if strings.Contains(path, ".") {
			return true
		}
	}
	return false
}

// blockedPrefix returns the shortest proper prefix of path that holds a
// non-object value in doc.
func blockedPrefix(doc model.Fields, path string) (string, bool) {
	parts := strings.Split(path, ".")
	cur := doc
	for i := 0; i < len(parts)-1; i++ {
		v, present := cur[parts[i]]
		if !present {
			return "", false
		}
		next, isMap := v.(map[string]interface{})
		if !isMap {
			return strings.Join(parts[:i+1], "."), true
		}
		cur = next
	}
	return "", false
}

func valueAt(doc model.Fields, path string) interface{} {
	var v interface{} = doc
	for _, p := range strings.Split(path, ".") {
		m, _ := v.(map[string]interface{})
		v = m[p]
	}
	return v
}

func (s *DocumentStore) Replace(ctx context.Context, domain model.Domain, fields model.Fields) error {
	doc := bson.M{"_id": domain.DocumentID()}
	for k, v := range fields {
		doc[k] = v
	}
	_, err := s.col.ReplaceOne(ctx, byDocumentID(domain), doc, options.Replace().SetUpsert(true))
	if err != nil {
		s.logger.WithContext(ctx).Errorf("Replace of %s failed: %v", domain.DocumentID(), err)
	}
	return err
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}
