package models

import "time"

// Event types published on the bus
const (
	EventCatalogUpdated = "catalog.updated"
	EventCatalogFailed  = "catalog.failed"
	EventCartUpdated    = "cart.updated"
	EventToast          = "toast"
)

// Event is a notification for the presentation layer.
// An empty SessionID means the event is for every session.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"-"`
	Message   string    `json:"message,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}
