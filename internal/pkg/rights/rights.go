package rights

import (
	"errors"
	"fmt"
)

// Roles are fixed at process start; assigning a role to a user is the user
// directory's job, not this package's.
const (
	RoleResident = "RESIDENT"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// Permission strings checked by the authorization middleware.
const (
	PermViewAnnouncements   = "viewAnnouncements"
	PermManageAnnouncements = "manageAnnouncements"
	PermViewInvoices        = "viewInvoices"
	PermManageInvoices      = "manageInvoices"
	PermRegisterServices    = "registerServices"
	PermManageServices      = "manageServices"
	PermSubmitFeedback      = "submitFeedback"
	PermManageFeedback      = "manageFeedback"
	PermManageApartments    = "manageApartments"
	PermManageUsers         = "manageUsers"
	PermViewReports         = "viewReports"
)

var roleRights = map[string][]string{
	RoleResident: {
		PermViewAnnouncements,
		PermViewInvoices,
		PermRegisterServices,
		PermSubmitFeedback,
	},
	RoleEmployee: {
		PermViewAnnouncements,
		PermManageAnnouncements,
		PermViewInvoices,
		PermManageInvoices,
		PermManageServices,
		PermManageFeedback,
		PermViewReports,
	},
	RoleAdmin: {
		PermViewAnnouncements,
		PermManageAnnouncements,
		PermViewInvoices,
		PermManageInvoices,
		PermRegisterServices,
		PermManageServices,
		PermSubmitFeedback,
		PermManageFeedback,
		PermManageApartments,
		PermManageUsers,
		PermViewReports,
	},
}

// ErrUnknownRole is returned by RightsOf for roles outside the fixed set.
var ErrUnknownRole = errors.New("unknown role")

// RightsOf returns the permission set held by role. Unknown roles are a hard
// error here, unlike HasPermission.
func RightsOf(role string) ([]string, error) {
	perms, ok := roleRights[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out, nil
}

// HasPermission reports whether role holds perm. An unknown role simply
// holds no rights.
func HasPermission(role, perm string) bool {
	for _, p := range roleRights[role] {
		if p == perm {
			return true
		}
	}
	return false
}
