package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"

	"github.com/google/uuid"
)

// SubmissionRepository is an in-memory append-only log ordered by insertion.
type SubmissionRepository struct {
	mu      sync.RWMutex
	records []model.Submission
	newID   func() string
}

// NewSubmissionRepository creates an empty log
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{newID: uuid.NewString}
}

func (r *SubmissionRepository) Insert(ctx context.Context, submissions []*model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range submissions {
		s.ID = r.newID()
		r.records = append(r.records, *s)
	}
	return nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]model.Submission, len(r.records))
	copy(out, r.records)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.records {
		if s.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrSubmissionNotFound
}

func (r *SubmissionRepository) DeleteFirstByTimestamp(ctx context.Context, submittedAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.records {
		if s.SubmittedAt.Equal(submittedAt) {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return s.ID, nil
		}
	}
	return "", repository.ErrSubmissionNotFound
}
