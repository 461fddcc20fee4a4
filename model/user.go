package model

import "time"

// Role names held in the role-assignment store.
const (
	RoleAdmin    = "admin"
	RoleFarmer   = "farmer"
	RoleProducer = "producer"
)

// KnownRoles lists every role an admin may assign.
var KnownRoles = []string{RoleAdmin, RoleFarmer, RoleProducer}

// UserIdentity is the caller resolved from session state.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Profile is the public-facing user row kept by the data service.
type Profile struct {
	ID          string    `json:"id" mapstructure:"id"`
	Email       string    `json:"email" mapstructure:"email"`
	DisplayName string    `json:"display_name" mapstructure:"display_name"`
	UserType    string    `json:"user_type" mapstructure:"user_type"` // "farmer", "producer"
	CreatedAt   time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
}

// Me is returned to a caller asking about itself.
type Me struct {
	UserIdentity
	Roles []string `json:"roles"`
}
