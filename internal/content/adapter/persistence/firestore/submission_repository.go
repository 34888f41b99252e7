package firestore

import (
	"context"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type submissionDocument struct {
	Name        string    `firestore:"name"`
	Email       string    `firestore:"email"`
	Subject     string    `firestore:"subject,omitempty"`
	Message     string    `firestore:"message"`
	SubmittedAt time.Time `firestore:"submittedAt"`
}

// SubmissionRepository uses auto-generated document ids as submission ids.
type SubmissionRepository struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func NewSubmissionRepository(client *firestore.Client, collection string) *SubmissionRepository {
	return &SubmissionRepository{client: client, col: client.Collection(collection)}
}

// Insert creates all records in one transaction.
func (r *SubmissionRepository) Insert(ctx context.Context, submissions []*model.Submission) error {
	refs := make([]*firestore.DocumentRef, len(submissions))
	for i := range submissions {
		refs[i] = r.col.NewDoc()
	}
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i, s := range submissions {
			doc := submissionDocument{
				Name:        s.Name,
				Email:       s.Email,
				Subject:     s.Subject,
				Message:     s.Message,
				SubmittedAt: s.SubmittedAt,
			}
			if err := tx.Create(refs[i], doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, s := range submissions {
		s.ID = refs[i].ID
	}
	return nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	iter := r.col.OrderBy("submittedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	out := make([]model.Submission, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var doc submissionDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, model.Submission{
			ID:          snap.Ref.ID,
			Name:        doc.Name,
			Email:       doc.Email,
			Subject:     doc.Subject,
			Message:     doc.Message,
			SubmittedAt: doc.SubmittedAt.UTC(),
		})
	}
	return out, nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return repository.ErrSubmissionNotFound
		}
		return err
	}
	return nil
}

func (r *SubmissionRepository) DeleteFirstByTimestamp(ctx context.Context, submittedAt time.Time) (string, error) {
	var deleted string
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = ""
		snaps, err := tx.Documents(r.col.Where("submittedAt", "==", submittedAt).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return repository.ErrSubmissionNotFound
		}
		deleted = snaps[0].Ref.ID
		return tx.Delete(snaps[0].Ref)
	})
	if err != nil {
		return "", err
	}
	return deleted, nil
}
