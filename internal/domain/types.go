package domain

import "github.com/google/uuid"

// UserRef identifies the acting user on mutating operations. The identity is
// supplied by the host application's session layer and recorded verbatim; the
// core never resolves or re-validates it.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// IsZero reports whether the reference carries no identity.
func (u UserRef) IsZero() bool {
	return u.ID == uuid.Nil && u.Name == ""
}
