package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"welfare-cms/internal/content/adapter/persistence/memory"
	"welfare-cms/internal/content/domain/model"

	"github.com/stretchr/testify/mock"
)

type testEnv struct {
	uc          *ContentUsecase
	documents   *memory.DocumentStore
	submissions *memory.SubmissionRepository
	gallery     *memory.GalleryRepository
	cache       *memory.Cache
	changes     *memory.ChangeLog
	clock       time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		documents:   memory.NewDocumentStore(),
		submissions: memory.NewSubmissionRepository(),
		gallery:     memory.NewGalleryRepository(),
		cache:       memory.NewCache(),
		changes:     memory.NewChangeLog(100),
		clock:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	env.uc = NewContentUsecase(Dependencies{
		Documents:   env.documents,
		Submissions: env.submissions,
		Gallery:     env.gallery,
		Cache:       env.cache,
		ChangeLog:   env.changes,
	})
	env.uc.now = func() time.Time { return env.clock }

	var seq int64
	env.uc.newID = func() string {
		n := atomic.AddInt64(&seq, 1)
		return fmt.Sprintf("%08x-0000-4000-8000-000000000000", n)
	}
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

// mockDocumentStore fails on demand.
type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) Get(ctx context.Context, domain model.Domain) (model.Fields, error) {
	args := m.Called(ctx, domain)
	fields, _ := args.Get(0).(model.Fields)
	return fields, args.Error(1)
}

func (m *mockDocumentStore) Merge(ctx context.Context, domain model.Domain, fields model.Fields) error {
	return m.Called(ctx, domain, fields).Error(0)
}

func (m *mockDocumentStore) Replace(ctx context.Context, domain model.Domain, fields model.Fields) error {
	return m.Called(ctx, domain, fields).Error(0)
}

func (m *mockDocumentStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
