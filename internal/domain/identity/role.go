package identity

// Role is the access level of a user within its company
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// Permission codes carried in access tokens
const (
	PermissionRead        = "records:read"
	PermissionWrite       = "records:write"
	PermissionApprove     = "records:approve"
	PermissionDelete      = "records:delete"
	PermissionManageUsers = "users:manage"
)

var rolePermissions = map[Role][]string{
	RoleAdmin:   {PermissionRead, PermissionWrite, PermissionApprove, PermissionDelete, PermissionManageUsers},
	RoleManager: {PermissionRead, PermissionWrite, PermissionApprove},
	RoleUser:    {PermissionRead, PermissionWrite},
}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// Permissions returns the permission codes granted to the role
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role grants the permission
func (r Role) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
