package types

import "time"

// Entity carries the bookkeeping timestamps of a persisted record.
// Embed this in domain types to get automatic timestamp handling.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity with current timestamps.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp to now. A zero CreatedAt is
// initialized as well, so lazily created records get both stamps on
// their first write.
func (e *Entity) Touch() {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// IsNew reports whether the record has never been written.
func (e Entity) IsNew() bool {
	return e.CreatedAt.IsZero()
}
