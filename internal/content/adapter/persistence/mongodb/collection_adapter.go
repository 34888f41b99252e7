package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionInterface is the subset of *mongo.Collection the repositories use.
// Tests substitute an in-process fake.
type CollectionInterface interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, doc interface{}) (interface{}, error)
	InsertMany(ctx context.Context, docs []interface{}) error
	FindOne(ctx context.Context, filter interface{}) SingleResultInterface
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorInterface, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultInterface, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (UpdateResultInterface, error)
	DeleteOne(ctx context.Context, filter interface{}) (DeleteResultInterface, error)
	DeleteMany(ctx context.Context, filter interface{}) (DeleteResultInterface, error)
	FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) SingleResultInterface
}

type SingleResultInterface interface {
	Decode(v interface{}) error
}
type UpdateResultInterface interface{ Matched() int64 }
type DeleteResultInterface interface{ Deleted() int64 }
type CursorInterface interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Close(ctx context.Context) error
	Err() error
}

// MongoCollectionAdapter makes *mongo.Collection satisfy CollectionInterface.
type MongoCollectionAdapter struct {
	col *mongo.Collection
}

func NewMongoCollectionAdapter(col *mongo.Collection) *MongoCollectionAdapter {
	return &MongoCollectionAdapter{col: col}
}

func (m *MongoCollectionAdapter) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.col.CountDocuments(ctx, filter, opts...)
}

func (m *MongoCollectionAdapter) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (m *MongoCollectionAdapter) InsertMany(ctx context.Context, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := m.col.InsertMany(ctx, docs)
	return err
}

func (m *MongoCollectionAdapter) FindOne(ctx context.Context, filter interface{}) SingleResultInterface {
	return &MongoSingleResultAdapter{res: m.col.FindOne(ctx, filter)}
}

func (m *MongoCollectionAdapter) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorInterface, error) {
	cur, err := m.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoCursorAdapter{cur: cur}, nil
}

func (m *MongoCollectionAdapter) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultInterface, error) {
	res, err := m.col.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoUpdateResultAdapter{matched: res.MatchedCount + res.UpsertedCount}, nil
}

func (m *MongoCollectionAdapter) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (UpdateResultInterface, error) {
	res, err := m.col.ReplaceOne(ctx, filter, replacement, opts...)
	if err != nil {
		return nil, err
	}
	return &MongoUpdateResultAdapter{matched: res.MatchedCount + res.UpsertedCount}, nil
}

func (m *MongoCollectionAdapter) DeleteOne(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	res, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &MongoDeleteResultAdapter{deleted: res.DeletedCount}, nil
}

func (m *MongoCollectionAdapter) DeleteMany(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	res, err := m.col.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &MongoDeleteResultAdapter{deleted: res.DeletedCount}, nil
}

func (m *MongoCollectionAdapter) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) SingleResultInterface {
	return &MongoSingleResultAdapter{res: m.col.FindOneAndDelete(ctx, filter, opts...)}
}

type MongoSingleResultAdapter struct {
	res *mongo.SingleResult
}

func (m *MongoSingleResultAdapter) Decode(v interface{}) error {
	return m.res.Decode(v)
}

type MongoUpdateResultAdapter struct {
	matched int64
}

func (m *MongoUpdateResultAdapter) Matched() int64 { return m.matched }

type MongoDeleteResultAdapter struct {
	deleted int64
}

func (m *MongoDeleteResultAdapter) Deleted() int64 { return m.deleted }

type MongoCursorAdapter struct {
	cur *mongo.Cursor
}

func (m *MongoCursorAdapter) Next(ctx context.Context) bool   { return m.cur.Next(ctx) }
func (m *MongoCursorAdapter) Decode(val interface{}) error    { return m.cur.Decode(val) }
func (m *MongoCursorAdapter) Close(ctx context.Context) error { return m.cur.Close(ctx) }
func (m *MongoCursorAdapter) Err() error                      { return m.cur.Err() }
