package usecase

import (
	"context"
	"fmt"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/service"
	"welfare-cms/internal/shared/eventbus"
	apperrors "welfare-cms/internal/shared/errors"
)

const submissionsDomain = "submissions"

// SubmitContact validates a public contact form entry and appends it to the log.
func (uc *ContentUsecase) SubmitContact(ctx context.Context, in model.SubmissionInput) (*model.Submission, error) {
	if err := service.ValidateSubmission(&in, true); err != nil {
		return nil, err
	}

	rejected, err := uc.rule.Rejects(in)
	if err != nil {
		uc.logger.WithContext(ctx).Errorf("Submission rule evaluation failed: %v", err)
		return nil, apperrors.NewInternalError("Failed to process submission.").WithCause(err)
	}
	if rejected {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"rule": uc.rule.String()}).Warn("Submission rejected by rule")
		return nil, apperrors.NewRejectedError("Submission rejected.")
	}

	sub := &model.Submission{
		Name:        in.Name,
		Email:       in.Email,
		Subject:     in.Subject,
		Message:     in.Message,
		SubmittedAt: uc.now().Truncate(model.TimestampPrecision),
	}
	if err := uc.submissions.Insert(ctx, []*model.Submission{sub}); err != nil {
		return nil, wrapStoreError(err, "Failed to save submission.")
	}

	uc.publish(ctx, eventbus.EventTypeSubmissionCreated, submissionsDomain, map[string]interface{}{"id": sub.ID})
	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"id": sub.ID}).Info("Contact submission stored")
	return sub, nil
}

// ImportSubmissions appends one or more records, keeping supplied timestamps.
// It is used for migrating older submission exports.
func (uc *ContentUsecase) ImportSubmissions(ctx context.Context, in []model.SubmissionInput) ([]model.Submission, error) {
	if len(in) == 0 {
		return nil, apperrors.NewValidationError("Invalid data format. Expecting object or array of objects.")
	}

	now := uc.now().Truncate(model.TimestampPrecision)
	batch := make([]*model.Submission, 0, len(in))
	for i := range in {
		item := in[i]
		if err := service.ValidateSubmission(&item, false); err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok {
				appErr.WithDetail("index", i)
			}
			return nil, err
		}
		submittedAt := now
		if item.SubmittedAt != "" {
			ts, err := service.ParseTimestamp(item.SubmittedAt)
			if err != nil {
				return nil, err
			}
			submittedAt = ts.Truncate(model.TimestampPrecision)
		}
		batch = append(batch, &model.Submission{
			Name:        item.Name,
			Email:       item.Email,
			Subject:     item.Subject,
			Message:     item.Message,
			SubmittedAt: submittedAt,
		})
	}

	if err := uc.submissions.Insert(ctx, batch); err != nil {
		return nil, wrapStoreError(err, "Error adding submission(s).")
	}

	out := make([]model.Submission, len(batch))
	ids := make([]string, len(batch))
	for i, s := range batch {
		out[i] = *s
		ids[i] = s.ID
	}
	uc.publish(ctx, eventbus.EventTypeSubmissionCreated, submissionsDomain, map[string]interface{}{"ids": ids})
	return out, nil
}

// ImportMessage is the response text for an import of n records.
func ImportMessage(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d submissions added successfully!", n)
	}
	return "Submission added successfully!"
}

// ListSubmissions returns every submission, newest first.
func (uc *ContentUsecase) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	subs, err := uc.submissions.List(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to fetch submissions.")
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// DeleteSubmission removes one submission by its store id.
func (uc *ContentUsecase) DeleteSubmission(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("Submission id is required.")
	}
	if err := uc.submissions.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFoundError("Submission").WithCause(err)
		}
		return wrapStoreError(err, "Failed to delete submission.")
	}
	uc.publish(ctx, eventbus.EventTypeSubmissionDeleted, submissionsDomain, map[string]interface{}{"id": id})
	return nil
}

// DeleteSubmissionByTimestamp removes the first submission whose timestamp equals
// submittedAt exactly. Two submissions stored in the same millisecond share a
// timestamp, in which case only one of them is removed per call.
func (uc *ContentUsecase) DeleteSubmissionByTimestamp(ctx context.Context, submittedAt string) (string, error) {
	if submittedAt == "" {
		return "", apperrors.NewValidationError("Submission id is required.")
	}
	ts, err := service.ParseTimestamp(submittedAt)
	if err != nil {
		return "", err
	}
	id, err := uc.submissions.DeleteFirstByTimestamp(ctx, ts)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.NewNotFoundError("Submission").WithCause(err)
		}
		return "", wrapStoreError(err, "Failed to delete submission.")
	}
	uc.publish(ctx, eventbus.EventTypeSubmissionDeleted, submissionsDomain, map[string]interface{}{"id": id})
	return id, nil
}

