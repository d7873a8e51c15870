package domain

// Admin role names carried in access tokens.
const (
	RoleAdmin      = "ROLE_ADMIN"
	RoleSuperAdmin = "ROLE_SUPER_ADMIN"
)

// Actor is the authenticated caller of a service operation, as asserted by the
// access token. Identity itself is issued elsewhere.
type Actor struct {
	UserID      string   `json:"userID"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
}

// IsAdmin reports whether the actor holds an admin role.
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleAdmin || r == RoleSuperAdmin {
			return true
		}
	}
	return false
}

// SystemActorID stamps audit fields for changes made by background reconciliation.
const SystemActorID = "system"
