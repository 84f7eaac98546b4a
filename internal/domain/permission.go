package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEditRequiresView is returned when a caller tries to grant edit on a
	// column without also granting view for the same role.
	ErrEditRequiresView = errors.New("edit permission requires view permission")

	// ErrAdminRowImmutable is returned on any attempt to store a permission
	// row for HR admin. Admin access to masterdata is structural, not
	// configuration, so it never lives in the matrix.
	ErrAdminRowImmutable = errors.New("hr_admin permissions are structural and cannot be set")
)

// Permission is the view/edit pair for one role on one column.
type Permission struct {
	View bool `json:"view"`
	Edit bool `json:"edit"`
}

// NewPermission validates the edit-implies-view invariant.
func NewPermission(view, edit bool) (Permission, error) {
	if edit && !view {
		return Permission{}, ErrEditRequiresView
	}
	return Permission{View: view, Edit: edit}, nil
}

func (p Permission) valid() bool {
	return !p.Edit || p.View
}

// MasterdataAdminPermission is HR admin's fixed access to every masterdata
// column. It is a constant on purpose: there is no code path that can turn
// it off.
func MasterdataAdminPermission() Permission {
	return Permission{View: true, Edit: true}
}

// PermissionMatrix maps party roles to their permission on a single column.
// A role absent from the map has no access at all. The zero value (nil map)
// is a fully hidden column.
//
// The matrix never contains an hr_admin row; Set rejects it and Scan drops
// it if a legacy blob still carries one.
type PermissionMatrix map[Role]Permission

// Get returns the stored permission, defaulting to no access.
func (m PermissionMatrix) Get(role Role) Permission {
	if m == nil {
		return Permission{}
	}
	return m[role]
}

func (m PermissionMatrix) CanView(role Role) bool { return m.Get(role).View }
func (m PermissionMatrix) CanEdit(role Role) bool { return m.Get(role).Edit }

// Set applies one role's permission, enforcing edit=>view and the
// structural hr_admin guard. Returns the updated matrix so callers can use
// it on a nil value.
func (m PermissionMatrix) Set(role Role, p Permission) (PermissionMatrix, error) {
	if role == RoleHRAdmin {
		return m, ErrAdminRowImmutable
	}
	if !p.valid() {
		return m, fmt.Errorf("role %s: %w", role, ErrEditRequiresView)
	}
	out := m.Clone()
	if out == nil {
		out = PermissionMatrix{}
	}
	out[role] = p
	return out, nil
}

// Validate checks every row of the matrix. Used when a whole matrix arrives
// from outside (unhide, permission update endpoint).
func (m PermissionMatrix) Validate() error {
	for role, p := range m {
		if role == RoleHRAdmin {
			return ErrAdminRowImmutable
		}
		if _, err := ParseRole(string(role)); err != nil {
			return err
		}
		if !p.valid() {
			return fmt.Errorf("role %s: %w", role, ErrEditRequiresView)
		}
	}
	return nil
}

// Hide zeroes out every role at once. The previous matrix is the caller's
// to keep; Unhide takes it back.
func (m PermissionMatrix) Hide() PermissionMatrix {
	out := PermissionMatrix{}
	for role := range m {
		out[role] = Permission{}
	}
	return out
}

// Unhide restores a previously saved matrix after validating it. No history
// is kept server-side; the caller supplies the snapshot it saved before
// hiding.
func (m PermissionMatrix) Unhide(saved PermissionMatrix) (PermissionMatrix, error) {
	if err := saved.Validate(); err != nil {
		return m, err
	}
	return saved.Clone(), nil
}

func (m PermissionMatrix) Clone() PermissionMatrix {
	if m == nil {
		return nil
	}
	out := make(PermissionMatrix, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m PermissionMatrix) Equal(other PermissionMatrix) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Value serializes the matrix to JSONB for the columns table.
func (m PermissionMatrix) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan reads the matrix from a JSONB column. An hr_admin row in stored data
// is dropped rather than loaded, so a stale blob can never grant or revoke
// admin access.
func (m *PermissionMatrix) Scan(src any) error {
	if src == nil {
		*m = PermissionMatrix{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionMatrix", src)
	}
	var decoded PermissionMatrix
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	delete(decoded, RoleHRAdmin)
	*m = decoded
	return nil
}
