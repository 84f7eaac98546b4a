package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

func TestNewPermission(t *testing.T) {
	t.Run("edit requires view", func(t *testing.T) {
		_, err := domain.NewPermission(false, true)
		assert.ErrorIs(t, err, domain.ErrEditRequiresView)
	})

	t.Run("view without edit is fine", func(t *testing.T) {
		p, err := domain.NewPermission(true, false)
		assert.NoError(t, err)
		assert.True(t, p.View)
		assert.False(t, p.Edit)
	})

	t.Run("no access is fine", func(t *testing.T) {
		_, err := domain.NewPermission(false, false)
		assert.NoError(t, err)
	})
}

func TestPermissionMatrix_Set(t *testing.T) {
	t.Run("rejects hr_admin row", func(t *testing.T) {
		_, err := domain.PermissionMatrix{}.Set(domain.RoleHRAdmin, domain.Permission{View: true})
		assert.ErrorIs(t, err, domain.ErrAdminRowImmutable)
	})

	t.Run("rejects edit without view", func(t *testing.T) {
		_, err := domain.PermissionMatrix{}.Set(domain.RoleCatering, domain.Permission{Edit: true})
		assert.ErrorIs(t, err, domain.ErrEditRequiresView)
	})

	t.Run("works on nil matrix", func(t *testing.T) {
		var m domain.PermissionMatrix
		m, err := m.Set(domain.RoleMedical, domain.Permission{View: true, Edit: true})
		assert.NoError(t, err)
		assert.True(t, m.CanView(domain.RoleMedical))
		assert.True(t, m.CanEdit(domain.RoleMedical))
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		orig := domain.PermissionMatrix{domain.RoleCatering: {View: true}}
		updated, err := orig.Set(domain.RoleCatering, domain.Permission{View: true, Edit: true})
		assert.NoError(t, err)
		assert.False(t, orig.CanEdit(domain.RoleCatering))
		assert.True(t, updated.CanEdit(domain.RoleCatering))
	})
}

func TestPermissionMatrix_Invariant(t *testing.T) {
	// Whatever sequence of Set / Hide / Unhide runs, edit never holds
	// without view for any role.
	checkInvariant := func(t *testing.T, m domain.PermissionMatrix) {
		t.Helper()
		for _, role := range domain.AllRoles() {
			if m.CanEdit(role) {
				assert.True(t, m.CanView(role), "edit without view for %s", role)
			}
		}
	}

	m := domain.PermissionMatrix{}
	m, err := m.Set(domain.RoleCatering, domain.Permission{View: true, Edit: true})
	assert.NoError(t, err)
	m, err = m.Set(domain.RolePayroll, domain.Permission{View: true})
	assert.NoError(t, err)
	checkInvariant(t, m)

	hidden := m.Hide()
	checkInvariant(t, hidden)
	for _, role := range domain.PartyRoles() {
		assert.False(t, hidden.CanView(role))
		assert.False(t, hidden.CanEdit(role))
	}

	restored, err := hidden.Unhide(m)
	assert.NoError(t, err)
	checkInvariant(t, restored)
	assert.True(t, restored.Equal(m))
}

func TestPermissionMatrix_UnhideRejectsBadSnapshot(t *testing.T) {
	hidden := domain.PermissionMatrix{domain.RoleCatering: {}}

	_, err := hidden.Unhide(domain.PermissionMatrix{
		domain.RoleCatering: {View: false, Edit: true},
	})
	assert.ErrorIs(t, err, domain.ErrEditRequiresView)

	_, err = hidden.Unhide(domain.PermissionMatrix{
		domain.RoleHRAdmin: {View: true, Edit: true},
	})
	assert.ErrorIs(t, err, domain.ErrAdminRowImmutable)
}

func TestPermissionMatrix_ScanDropsAdminRow(t *testing.T) {
	var m domain.PermissionMatrix
	err := m.Scan([]byte(`{"hr_admin":{"view":true,"edit":true},"catering":{"view":true,"edit":false}}`))
	assert.NoError(t, err)

	assert.False(t, m.CanView(domain.RoleHRAdmin))
	assert.True(t, m.CanView(domain.RoleCatering))
}

func TestPermissionMatrix_ValueNil(t *testing.T) {
	var m domain.PermissionMatrix
	v, err := m.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestParseRole(t *testing.T) {
	for _, role := range domain.AllRoles() {
		parsed, err := domain.ParseRole(role.String())
		assert.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := domain.ParseRole("janitor")
	assert.Error(t, err)

	assert.False(t, domain.RoleHRAdmin.IsParty())
	for _, role := range domain.PartyRoles() {
		assert.True(t, role.IsParty())
	}
}
