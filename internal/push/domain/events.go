package domain

// EventKind tags a token lifecycle transition in the registry.
type EventKind string

const (
	EventAnonymousAdded       EventKind = "anonymous_added"
	EventAnonymousRemoved     EventKind = "anonymous_removed"
	EventAuthenticatedAdded   EventKind = "authenticated_added"
	EventAuthenticatedRemoved EventKind = "authenticated_removed"
)

// Event is the payload delivered to a lifecycle hook. UserID is set only for
// the authenticated variants.
type Event struct {
	Token  string
	UserID string
}
