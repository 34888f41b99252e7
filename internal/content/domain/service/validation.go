package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"welfare-cms/internal/content/domain/model"
	apperrors "welfare-cms/internal/shared/errors"
)

// Validation messages surfaced to API clients.
const (
	MsgInvalidFormat         = "Invalid data format provided."
	MsgInvalidFeaturedIDs    = "Invalid data format for featuredMemberIds."
	MsgInvalidMembersPayload = "Invalid payload structure. Expected headline (string) and members (array)."
	MsgMissingSubmission     = "Missing required fields (name, email, message)."
	MsgInvalidEmail          = "Invalid email format."
	MsgInvalidFieldName      = "Field names must not contain '.' or start with '$'."
)

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail applies the permissive something@something.something check.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// ValidateFieldNames rejects keys that document stores treat as operators or
// paths, including keys of objects held in lists.
func ValidateFieldNames(fields model.Fields) error {
	for k, v := range fields {
		if k == "" || strings.Contains(k, ".") || strings.HasPrefix(k, "$") {
			return apperrors.NewValidationError(MsgInvalidFieldName).WithDetail("field", k)
		}
		if err := validateNestedNames(v); err != nil {
			return err
		}
	}
	return nil
}

func validateNestedNames(v interface{}) error {
	switch nested := v.(type) {
	case map[string]interface{}:
		return ValidateFieldNames(nested)
	case []interface{}:
		for _, item := range nested {
			if err := validateNestedNames(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateHome checks a partial home document.
func ValidateHome(fields model.Fields) error {
	if v, ok := fields["siteTitle"]; ok {
		if _, isString := v.(string); !isString {
			return apperrors.NewValidationError(MsgInvalidFormat).WithDetail("field", "siteTitle")
		}
	}
	for _, section := range homeSections {
		v, ok := fields[section]
		if !ok {
			continue
		}
		if _, isMap := v.(map[string]interface{}); !isMap {
			return apperrors.NewValidationError(MsgInvalidFormat).WithDetail("field", section)
		}
	}

	raw, ok := fields["featuredMemberIds"]
	if !ok {
		return nil
	}
	ids, isList := raw.([]interface{})
	if !isList {
		return apperrors.NewValidationError(MsgInvalidFeaturedIDs)
	}
	if len(ids) > model.MaxFeaturedMembers {
		return apperrors.NewValidationError(
			fmt.Sprintf("At most %d featured members are allowed.", model.MaxFeaturedMembers))
	}
	seen := make(map[string]bool, len(ids))
	for _, item := range ids {
		id, isString := item.(string)
		if !isString || id == "" {
			return apperrors.NewValidationError(MsgInvalidFeaturedIDs)
		}
		if seen[id] {
			return apperrors.NewValidationError("Duplicate featured member id: " + id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateMembers checks a complete members document. Members without an id
// are given one by newID so they stay addressable from featuredMemberIds.
func ValidateMembers(fields model.Fields, newID func() string) error {
	if _, ok := fields["headline"].(string); !ok {
		return apperrors.NewValidationError(MsgInvalidMembersPayload)
	}
	members, ok := fields["members"].([]interface{})
	if !ok {
		return apperrors.NewValidationError(MsgInvalidMembersPayload)
	}
	for i, item := range members {
		member, isMap := item.(map[string]interface{})
		if !isMap {
			return apperrors.NewValidationError(MsgInvalidMembersPayload).WithDetail("index", i)
		}
		if id, _ := member["id"].(string); id == "" {
			member["id"] = newID()
		}
	}
	return nil
}

// ValidateSubmission trims and checks a public contact submission.
func ValidateSubmission(in *model.SubmissionInput, requireEmailShape bool) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.Subject = strings.TrimSpace(in.Subject)

	ve := apperrors.NewValidationErrors()
	if in.Name == "" {
		ve.Add("name", "name is required", in.Name)
	}
	if in.Email == "" {
		ve.Add("email", "email is required", in.Email)
	}
	if in.Message == "" {
		ve.Add("message", "message is required", in.Message)
	}
	if ve.HasErrors() {
		return ve.ToAppError(MsgMissingSubmission)
	}
	if requireEmailShape && !ValidEmail(in.Email) {
		return apperrors.NewValidationError(MsgInvalidEmail).WithDetail("field", "email")
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the plain date/time forms found in older exports.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("Invalid timestamp: " + value)
}
