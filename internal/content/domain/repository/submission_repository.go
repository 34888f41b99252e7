package repository

import (
	"context"
	"time"

	"welfare-cms/internal/content/domain/model"
)

// SubmissionRepository is the append-only contact submission log.
type SubmissionRepository interface {
	// Insert stores every submission as a new record and fills in its ID.
	Insert(ctx context.Context, submissions []*model.Submission) error
	// List returns all submissions, newest first.
	List(ctx context.Context) ([]model.Submission, error)
	// Delete removes the submission with id or returns ErrSubmissionNotFound.
	Delete(ctx context.Context, id string) error
	// DeleteFirstByTimestamp removes the first submission whose timestamp equals
	// submittedAt and returns its id, or ErrSubmissionNotFound.
	DeleteFirstByTimestamp(ctx context.Context, submittedAt time.Time) (string, error)
}
