package domain

import "fmt"

// Role is one of the fixed set of actors in the system. The set is closed:
// adding a new external party means adding a new party data table, not a row
// somewhere, so roles are compile-time constants.
type Role string

const (
	RoleHRAdmin    Role = "hr_admin"
	RoleCatering   Role = "catering"
	RoleMedical    Role = "medical"
	RolePayroll    Role = "payroll"
	RoleFacilities Role = "facilities"
)

// AllRoles returns every known role, HR admin included.
func AllRoles() []Role {
	return []Role{RoleHRAdmin, RoleCatering, RoleMedical, RolePayroll, RoleFacilities}
}

// PartyRoles returns the external party roles, i.e. every role that owns a
// party data store. HR admin is not a party: masterdata lives on the
// employee row directly.
func PartyRoles() []Role {
	return []Role{RoleCatering, RoleMedical, RolePayroll, RoleFacilities}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	for _, known := range AllRoles() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) IsParty() bool {
	for _, p := range PartyRoles() {
		if r == p {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
