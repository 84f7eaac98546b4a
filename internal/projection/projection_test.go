package projection_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/projection"
	projectionerrors "github.com/rthunborg/Masterdata-sub001/internal/projection/errors"
)

func masterCol(name, field string) column.Column {
	return column.Column{
		ID:           uuid.New(),
		Name:         name,
		NameKey:      column.NameKeyOf(name),
		Type:         column.TypeText,
		IsMasterdata: true,
		MasterField:  field,
	}
}

func customCol(name string, perms domain.PermissionMatrix) column.Column {
	return column.Column{
		ID:              uuid.New(),
		Name:            name,
		NameKey:         column.NameKeyOf(name),
		Type:            column.TypeText,
		RolePermissions: perms,
	}
}

func TestForRead_OmitsNonViewableColumns(t *testing.T) {
	ssn := masterCol("SSN", "ssn")
	ssn.RolePermissions = domain.PermissionMatrix{
		domain.RolePayroll: {View: true},
	}
	firstName := masterCol("First Name", "first_name")
	firstName.RolePermissions = domain.PermissionMatrix{
		domain.RoleCatering: {View: true},
		domain.RolePayroll:  {View: true},
	}
	allergies := customCol("Allergies", domain.PermissionMatrix{
		domain.RoleCatering: {View: true, Edit: true},
	})

	master := map[string]any{"ssn": "19900101-1234", "first_name": "Anna"}
	cols := []column.Column{ssn, firstName, allergies}

	t.Run("catering never sees the ssn key", func(t *testing.T) {
		out := projection.ForRead(master, cols, map[string]any{"Allergies": "nuts"}, domain.RoleCatering)

		_, present := out["SSN"]
		assert.False(t, present, "non-viewable column must be absent, not blank")
		assert.Equal(t, "Anna", out["First Name"])
		assert.Equal(t, "nuts", out["Allergies"])
	})

	t.Run("payroll sees ssn but not the custom column", func(t *testing.T) {
		out := projection.ForRead(master, cols, nil, domain.RolePayroll)

		assert.Equal(t, "19900101-1234", out["SSN"])
		_, present := out["Allergies"]
		assert.False(t, present)
	})

	t.Run("no visible columns yields empty map", func(t *testing.T) {
		out := projection.ForRead(master, cols, nil, domain.RoleFacilities)
		assert.Empty(t, out)
		assert.NotNil(t, out)
	})

	t.Run("leak property over every role and column", func(t *testing.T) {
		for _, role := range domain.AllRoles() {
			out := projection.ForRead(master, cols, map[string]any{"Allergies": "nuts"}, role)
			for _, col := range cols {
				_, present := out[col.Name]
				assert.Equal(t, col.CanView(role), present,
					"role %s column %s", role, col.Name)
			}
		}
	})
}

func TestForRead_AdminStructuralAccess(t *testing.T) {
	// Masterdata is always visible to hr_admin even with an empty matrix.
	ssn := masterCol("SSN", "ssn")
	out := projection.ForRead(map[string]any{"ssn": "x"}, []column.Column{ssn}, nil, domain.RoleHRAdmin)
	assert.Equal(t, "x", out["SSN"])

	// Custom columns fall back to the stored matrix, which has no admin row.
	allergies := customCol("Allergies", domain.PermissionMatrix{
		domain.RoleCatering: {View: true, Edit: true},
	})
	out = projection.ForRead(nil, []column.Column{allergies}, map[string]any{"Allergies": "nuts"}, domain.RoleHRAdmin)
	_, present := out["Allergies"]
	assert.False(t, present)
}

func TestForRead_MissingValueIsNull(t *testing.T) {
	allergies := customCol("Allergies", domain.PermissionMatrix{
		domain.RoleCatering: {View: true},
	})
	out := projection.ForRead(nil, []column.Column{allergies}, map[string]any{}, domain.RoleCatering)

	v, present := out["Allergies"]
	assert.True(t, present, "viewable column must be present even without data")
	assert.Nil(t, v)
}

func TestAuthorizeWrite(t *testing.T) {
	allergies := customCol("Allergies", domain.PermissionMatrix{
		domain.RoleCatering: {View: true, Edit: true},
		domain.RoleMedical:  {View: true},
	})

	assert.NoError(t, projection.AuthorizeWrite(allergies, domain.RoleCatering))
	assert.ErrorIs(t, projection.AuthorizeWrite(allergies, domain.RoleMedical), projectionerrors.ErrWriteForbidden)
	assert.ErrorIs(t, projection.AuthorizeWrite(allergies, domain.RoleHRAdmin), projectionerrors.ErrWriteForbidden)

	ssn := masterCol("SSN", "ssn")
	assert.NoError(t, projection.AuthorizeWrite(ssn, domain.RoleHRAdmin))
	assert.ErrorIs(t, projection.AuthorizeWrite(ssn, domain.RolePayroll), projectionerrors.ErrWriteForbidden)
}
