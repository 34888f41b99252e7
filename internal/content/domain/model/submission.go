package model

import "time"

// Submission is one contact form entry. ID is assigned by the store.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionInput is what callers provide when creating submissions.
// SubmittedAt is only honoured by imports.
type SubmissionInput struct {
	Name        string `json:"name" form:"name" yaml:"name"`
	Email       string `json:"email" form:"email" yaml:"email"`
	Subject     string `json:"subject,omitempty" form:"subject" yaml:"subject"`
	Message     string `json:"message" form:"message" yaml:"message"`
	SubmittedAt string `json:"submittedAt,omitempty" form:"-" yaml:"submittedAt"`
}

// TimestampPrecision is the resolution submission timestamps are stored with.
// All backends round-trip millisecond precision, so echoed values compare equal.
const TimestampPrecision = time.Millisecond
