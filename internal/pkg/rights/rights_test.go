package rights

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionMatrix(t *testing.T) {
	for role, perms := range roleRights {
		listed := make(map[string]bool, len(perms))
		for _, p := range perms {
			listed[p] = true
			require.True(t, HasPermission(role, p), "%s should hold %s", role, p)
		}
		// every permission absent from the role's list is denied
		for _, other := range []string{
			PermViewAnnouncements, PermManageAnnouncements,
			PermViewInvoices, PermManageInvoices,
			PermRegisterServices, PermManageServices,
			PermSubmitFeedback, PermManageFeedback,
			PermManageApartments, PermManageUsers, PermViewReports,
		} {
			if !listed[other] {
				require.False(t, HasPermission(role, other), "%s should not hold %s", role, other)
			}
		}
	}
}

func TestHasPermissionUnknownInputs(t *testing.T) {
	require.False(t, HasPermission("JANITOR", PermManageUsers))
	require.False(t, HasPermission(RoleAdmin, "launchMissiles"))
	require.False(t, HasPermission("", ""))
}

func TestRightsOf(t *testing.T) {
	perms, err := RightsOf(RoleResident)
	require.NoError(t, err)
	require.Contains(t, perms, PermSubmitFeedback)
	require.NotContains(t, perms, PermManageUsers)

	_, err = RightsOf("JANITOR")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestRightsOfReturnsCopy(t *testing.T) {
	perms, err := RightsOf(RoleResident)
	require.NoError(t, err)
	perms[0] = "tampered"

	again, err := RightsOf(RoleResident)
	require.NoError(t, err)
	require.NotEqual(t, "tampered", again[0])
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	for role, perms := range roleRights {
		for _, p := range perms {
			require.True(t, HasPermission(RoleAdmin, p), "admin should hold %s from %s", p, role)
		}
	}
}
