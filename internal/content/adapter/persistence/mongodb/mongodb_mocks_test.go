package mongodb

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mockCollection struct {
	mock.Mock
}

func (m *mockCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	args := m.Called(ctx, doc)
	return args.Get(0), args.Error(1)
}

func (m *mockCollection) InsertMany(ctx context.Context, docs []interface{}) error {
	return m.Called(ctx, docs).Error(0)
}

func (m *mockCollection) FindOne(ctx context.Context, filter interface{}) SingleResultInterface {
	return m.Called(ctx, filter).Get(0).(SingleResultInterface)
}

func (m *mockCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorInterface, error) {
	args := m.Called(ctx, filter)
	cur, _ := args.Get(0).(CursorInterface)
	return cur, args.Error(1)
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultInterface, error) {
	args := m.Called(ctx, filter, update)
	res, _ := args.Get(0).(UpdateResultInterface)
	return res, args.Error(1)
}

func (m *mockCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (UpdateResultInterface, error) {
	args := m.Called(ctx, filter, replacement)
	res, _ := args.Get(0).(UpdateResultInterface)
	return res, args.Error(1)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(DeleteResultInterface)
	return res, args.Error(1)
}

func (m *mockCollection) DeleteMany(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(DeleteResultInterface)
	return res, args.Error(1)
}

func (m *mockCollection) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) SingleResultInterface {
	return m.Called(ctx, filter).Get(0).(SingleResultInterface)
}

// singleResult decodes doc through a BSON round trip, or returns err.
type singleResult struct {
	doc interface{}
	err error
}

func (r singleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	raw, err := bson.Marshal(r.doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

type sliceCursor struct {
	docs []interface{}
	pos  int
}

func (c *sliceCursor) Next(ctx context.Context) bool {
	if c.pos >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Decode(v interface{}) error {
	return singleResult{doc: c.docs[c.pos-1]}.Decode(v)
}

func (c *sliceCursor) Close(ctx context.Context) error { return nil }
func (c *sliceCursor) Err() error                      { return nil }

// recordingRunner runs fn directly and counts invocations.
type recordingRunner struct {
	runs int
}

func (r *recordingRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	r.runs++
	return fn(ctx)
}
