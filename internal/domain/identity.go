package domain

const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Identity is the authenticated caller, as vouched for by the auth gateway.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin || i.Role == RoleSuperAdmin
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (i Identity) CanAccess(ownerID string) bool {
	return i.UserID == ownerID || i.IsAdmin()
}
