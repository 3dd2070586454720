package session

import "time"

// Role values the backend assigns to accounts.
const (
	RoleUser        = "user"
	RoleOrgAdmin    = "org_admin"
	RoleSystemAdmin = "system_admin"
)

// User is the client-side projection of the authenticated account.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	EmailVerified    bool      `json:"email_verified"`
	Role             string    `json:"role"`
	Plan             string    `json:"plan"`
	OrganizationName string    `json:"organization_name,omitempty"`
	OrganizationSlug string    `json:"organization_slug,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	Timezone         string    `json:"timezone,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user administers their organization or the
// whole system.
func (u *User) IsAdmin() bool {
	return u.Role == RoleOrgAdmin || u.Role == RoleSystemAdmin
}
