package model

// Event types published on the in-process event bus.
const (
	EventRoleChanged  = "role.changed"
	EventAccessDenied = "access.denied"
)

// ChangedEvent is the event type published after a mutation of resource.
func ChangedEvent(resource string) string {
	return resource + ".changed"
}

// ChangeEvent describes one admin mutation.
type ChangeEvent struct {
	Resource   string
	ResourceID string
	Action     string
	ActorID    string
	Before     interface{}
	After      interface{}
}

// DenialEvent describes one rejected request.
type DenialEvent struct {
	UserID       string
	Path         string
	RequiredRole string
	Reason       DenyReason
}
