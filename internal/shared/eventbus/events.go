package eventbus

import "time"

// Event types published by the content module
const (
	EventTypeContentUpdated    = "content.updated"
	EventTypeGalleryChanged    = "gallery.changed"
	EventTypeSubmissionCreated = "submission.created"
	EventTypeSubmissionDeleted = "submission.deleted"
	EventTypeAdminLoggedIn     = "admin.logged_in"
)

// ChangeEvent describes a mutation of site content.
type ChangeEvent struct {
	eventType string
	domain    string
	actor     string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewChangeEvent creates a change event for domain performed by actor.
func NewChangeEvent(eventType, domain, actor string, data interface{}) *ChangeEvent {
	return &ChangeEvent{
		eventType: eventType,
		domain:    domain,
		actor:     actor,
		data:      data,
		timestamp: time.Now().UTC(),
		source:    "welfare-cms",
	}
}

func (e *ChangeEvent) Type() string         { return e.eventType }
func (e *ChangeEvent) Data() interface{}    { return e.data }
func (e *ChangeEvent) Timestamp() time.Time { return e.timestamp }
func (e *ChangeEvent) Source() string       { return e.source }

// Domain is the content domain ("home", "gallery", "submissions", ...) that changed.
func (e *ChangeEvent) Domain() string { return e.domain }

// Actor is the admin user that caused the change, or "anonymous".
func (e *ChangeEvent) Actor() string { return e.actor }

// DomainOf returns the domain of ev when it carries one.
func DomainOf(ev Event) string {
	if d, ok := ev.(interface{ Domain() string }); ok {
		return d.Domain()
	}
	return ""
}

// ActorOf returns the actor of ev when it carries one.
func ActorOf(ev Event) string {
	if a, ok := ev.(interface{ Actor() string }); ok {
		return a.Actor()
	}
	return ""
}
