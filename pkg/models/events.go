package models

// EventUserDeleted is the type tag of the user deletion broadcast.
const EventUserDeleted = "USER_DELETED"

// UserDeletedEvent is the wire format published on the user events exchange
// when a user row has been deleted. Transient, never persisted.
type UserDeletedEvent struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
}

// NewUserDeletedEvent builds the deletion event for a user id.
func NewUserDeletedEvent(userID int64) UserDeletedEvent {
	return UserDeletedEvent{Type: EventUserDeleted, UserID: userID}
}
