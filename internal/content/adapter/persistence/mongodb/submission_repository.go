package mongodb

import (
	"context"
	"errors"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type submissionDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Subject     string             `bson:"subject,omitempty"`
	Message     string             `bson:"message"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

func (d submissionDocument) toModel() model.Submission {
	return model.Submission{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		Subject:     d.Subject,
		Message:     d.Message,
		SubmittedAt: d.SubmittedAt.UTC(),
	}
}

// SubmissionRepository stores submissions with ObjectID keys.
type SubmissionRepository struct {
	col CollectionInterface
}

func NewSubmissionRepository(col CollectionInterface) *SubmissionRepository {
	return &SubmissionRepository{col: col}
}

func (r *SubmissionRepository) Insert(ctx context.Context, submissions []*model.Submission) error {
	docs := make([]interface{}, len(submissions))
	ids := make([]primitive.ObjectID, len(submissions))
	for i, s := range submissions {
		ids[i] = primitive.NewObjectID()
		docs[i] = submissionDocument{
			ID:          ids[i],
			Name:        s.Name,
			Email:       s.Email,
			Subject:     s.Subject,
			Message:     s.Message,
			SubmittedAt: s.SubmittedAt,
		}
	}
	if err := r.col.InsertMany(ctx, docs); err != nil {
		return err
	}
	for i, s := range submissions {
		s.ID = ids[i].Hex()
	}
	return nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Submission, 0)
	for cur.Next(ctx) {
		var doc submissionDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrSubmissionNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.Deleted() == 0 {
		return repository.ErrSubmissionNotFound
	}
	return nil
}

// DeleteFirstByTimestamp removes the earliest inserted match.
func (r *SubmissionRepository) DeleteFirstByTimestamp(ctx context.Context, submittedAt time.Time) (string, error) {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "_id", Value: 1}})
	var doc submissionDocument
	err := r.col.FindOneAndDelete(ctx, bson.M{"submittedAt": submittedAt}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrSubmissionNotFound
		}
		return "", err
	}
	return doc.ID.Hex(), nil
}
