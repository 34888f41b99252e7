package usecase

import (
	"context"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/content/domain/service"
	"welfare-cms/internal/shared/eventbus"
	apperrors "welfare-cms/internal/shared/errors"
)

var readFailureMessages = map[model.Domain]string{
	model.DomainHome:    "Failed to fetch homepage data from database.",
	model.DomainAbout:   "Failed to fetch about page data from database.",
	model.DomainContact: "Failed to fetch contact data from database.",
	model.DomainMembers: "Failed to fetch members data.",
}

var saveFailureMessages = map[model.Domain]string{
	model.DomainHome:    "Error saving homepage data to database",
	model.DomainAbout:   "Failed to save about content to database",
	model.DomainContact: "Failed to save contact content to database",
	model.DomainMembers: "Error saving members data",
}

func wrapStoreError(err error, message string) error {
	return apperrors.WrapError(err, message).WithComponent("content")
}

func requireDocumentDomain(domain model.Domain) error {
	for _, d := range model.DocumentDomains {
		if d == domain {
			return nil
		}
	}
	return apperrors.NewValidationError("not a document domain: " + domain.String())
}

// GetDocument resolves the domain document against its defaults.
//
// When the store fails, the defaults are returned together with the error so
// callers that serve a degraded body can do so. The error is authoritative.
func (uc *ContentUsecase) GetDocument(ctx context.Context, domain model.Domain) (model.Fields, error) {
	if err := requireDocumentDomain(domain); err != nil {
		return nil, err
	}

	var cached model.Fields
	if uc.cache.load(ctx, domain, &cached) {
		return cached, nil
	}

	stored, err := uc.documents.Get(ctx, domain)
	found := true
	if err != nil {
		if !apperrors.IsNotFound(err) {
			uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
				"domain": domain,
				"error":  err.Error(),
			}).Error("Failed to read content document")
			return model.Defaults(domain), wrapStoreError(err, readFailureMessages[domain])
		}
		found = false
		uc.logger.WithContext(ctx).Debugf("Document %s not found, returning defaults", domain.DocumentID())
	}

	resolved := service.ResolveDocument(domain, stored, found)
	uc.cache.store(ctx, domain, resolved)
	return resolved, nil
}

// SaveDocument persists fields for domain using mode. Home and Members are
// validated first. Members documents are stamped with updatedAt.
func (uc *ContentUsecase) SaveDocument(ctx context.Context, domain model.Domain, fields model.Fields, mode model.WriteMode) error {
	if err := requireDocumentDomain(domain); err != nil {
		return err
	}
	if fields == nil {
		return apperrors.NewValidationError(service.MsgInvalidFormat)
	}
	fields = model.CloneFields(fields)
	if err := service.ValidateFieldNames(fields); err != nil {
		return err
	}

	switch domain {
	case model.DomainHome:
		if err := service.ValidateHome(fields); err != nil {
			return err
		}
	case model.DomainMembers:
		if err := service.ValidateMembers(fields, uc.newMemberID); err != nil {
			return err
		}
		fields["updatedAt"] = uc.now()
	}

	log := uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"domain": domain,
		"mode":   mode.String(),
	})

	if err := repository.Write(ctx, uc.documents, domain, fields, mode); err != nil {
		log.WithFields(map[string]interface{}{"error": err.Error()}).Error("Failed to save content document")
		return wrapStoreError(err, saveFailureMessages[domain])
	}

	uc.cache.invalidate(ctx, domain)
	uc.publish(ctx, eventbus.EventTypeContentUpdated, domain.String(), map[string]interface{}{
		"mode":   mode.String(),
		"fields": service.FieldPaths(fields),
	})
	log.Info("Content document saved")
	return nil
}

func (uc *ContentUsecase) newMemberID() string {
	return "member-" + uc.newID()[:8]
}
