package shared

import "github.com/google/uuid"

// Identity is the authenticated caller as delivered by the presentation
// layer: a user id plus the role strings the permission oracle evaluates.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}
