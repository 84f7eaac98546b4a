package partydata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	columnMock "github.com/rthunborg/Masterdata-sub001/internal/column/mock"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/partydata"
	partydataerrors "github.com/rthunborg/Masterdata-sub001/internal/partydata/errors"
	partydataMock "github.com/rthunborg/Masterdata-sub001/internal/partydata/mock"
	projectionerrors "github.com/rthunborg/Masterdata-sub001/internal/projection/errors"
)

type serviceDeps struct {
	service partydata.Service
	repo    *partydataMock.MockRepository
	columns *columnMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	repo := partydataMock.NewMockRepository(ctrl)
	columnRepo := columnMock.NewMockRepository(ctrl)
	svc := partydata.NewService(repo, columnRepo)

	return &serviceDeps{service: svc, repo: repo, columns: columnRepo}
}

func customColumn(name string, colType column.Type, role domain.Role) column.Column {
	perms, _ := domain.PermissionMatrix{}.Set(role, domain.Permission{View: true, Edit: true})
	return column.Column{
		ID:              uuid.New(),
		Name:            name,
		NameKey:         column.NameKeyOf(name),
		Type:            colType,
		RolePermissions: perms,
		CreatedBy:       role.String(),
	}
}

func TestPartyDataService_Get(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	employeeID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		deps.repo.EXPECT().
			Get(ctx, domain.RoleCatering, employeeID).
			Return(partydata.Document{"Allergies": "nuts"}, nil)

		resp, err := deps.service.Get(ctx, domain.RoleCatering, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "nuts", resp.Data["Allergies"])
	})

	t.Run("hr_admin has no party store", func(t *testing.T) {
		_, err := deps.service.Get(ctx, domain.RoleHRAdmin, employeeID)
		assert.ErrorIs(t, err, partydataerrors.ErrUnsupportedRole)
	})
}

func TestPartyDataService_Patch(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.NewString()

	t.Run("success merges coerced values under canonical names", func(t *testing.T) {
		deps := setupServiceTest(t)

		allergies := customColumn("Allergies", column.TypeText, domain.RoleCatering)
		portions := customColumn("Daily Portions", column.TypeNumber, domain.RoleCatering)

		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{allergies, portions}, nil)

		deps.repo.EXPECT().
			Merge(ctx, domain.RoleCatering, employeeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Role, _ string, updates partydata.Document) error {
				assert.Equal(t, "nuts", updates["Allergies"])
				assert.Equal(t, float64(3), updates["Daily Portions"])
				return nil
			})

		merged := partydata.Document{"Allergies": "nuts", "Daily Portions": float64(3)}
		deps.repo.EXPECT().
			Get(ctx, domain.RoleCatering, employeeID).
			Return(merged, nil)

		resp, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"allergies":      "nuts",
			"Daily Portions": 3,
		})

		assert.NoError(t, err)
		assert.Equal(t, merged, resp.Data)
	})

	t.Run("empty patch merges nothing and leaves the doc unchanged", func(t *testing.T) {
		deps := setupServiceTest(t)

		existing := partydata.Document{"Allergies": "nuts"}
		deps.repo.EXPECT().
			Merge(ctx, domain.RoleCatering, employeeID, partydata.Document{}).
			Return(nil)
		deps.repo.EXPECT().
			Get(ctx, domain.RoleCatering, employeeID).
			Return(existing, nil)

		resp, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{})

		assert.NoError(t, err)
		assert.Equal(t, existing, resp.Data)
	})

	t.Run("unknown column rejects the whole patch", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return(nil, nil)

		_, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"Nonexistent": "x",
		})
		assert.ErrorIs(t, err, partydataerrors.ErrUnknownColumn)
	})

	t.Run("masterdata key cannot be written", func(t *testing.T) {
		deps := setupServiceTest(t)

		ssn := column.Column{
			ID:           uuid.New(),
			Name:         "SSN",
			NameKey:      "ssn",
			Type:         column.TypeText,
			IsMasterdata: true,
			MasterField:  "ssn",
		}
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{ssn}, nil)

		_, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"SSN": "19900101-1234",
		})
		assert.ErrorIs(t, err, partydataerrors.ErrMasterdataKey)
	})

	t.Run("no edit permission on someone else's column", func(t *testing.T) {
		deps := setupServiceTest(t)

		allergies := customColumn("Allergies", column.TypeText, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{allergies}, nil)

		_, err := deps.service.Patch(ctx, domain.RoleMedical, employeeID, map[string]any{
			"Allergies": "nuts",
		})
		assert.ErrorIs(t, err, projectionerrors.ErrWriteForbidden)
	})

	t.Run("value must match the column type", func(t *testing.T) {
		deps := setupServiceTest(t)

		portions := customColumn("Daily Portions", column.TypeNumber, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{portions}, nil)

		_, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"Daily Portions": "three",
		})
		assert.ErrorIs(t, err, partydataerrors.ErrValueType)
	})

	t.Run("date values are validated", func(t *testing.T) {
		deps := setupServiceTest(t)

		checkup := customColumn("Next Checkup", column.TypeDate, domain.RoleMedical)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{checkup}, nil).
			Times(2)

		_, err := deps.service.Patch(ctx, domain.RoleMedical, employeeID, map[string]any{
			"Next Checkup": "not-a-date",
		})
		assert.ErrorIs(t, err, partydataerrors.ErrValueType)

		deps.repo.EXPECT().
			Merge(ctx, domain.RoleMedical, employeeID, partydata.Document{"Next Checkup": "2026-10-01"}).
			Return(nil)
		deps.repo.EXPECT().
			Get(ctx, domain.RoleMedical, employeeID).
			Return(partydata.Document{"Next Checkup": "2026-10-01"}, nil)

		_, err = deps.service.Patch(ctx, domain.RoleMedical, employeeID, map[string]any{
			"Next Checkup": "2026-10-01",
		})
		assert.NoError(t, err)
	})

	t.Run("nil clears a key without type checking", func(t *testing.T) {
		deps := setupServiceTest(t)

		portions := customColumn("Daily Portions", column.TypeNumber, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{portions}, nil)
		deps.repo.EXPECT().
			Merge(ctx, domain.RoleCatering, employeeID, partydata.Document{"Daily Portions": nil}).
			Return(nil)
		deps.repo.EXPECT().
			Get(ctx, domain.RoleCatering, employeeID).
			Return(partydata.Document{}, nil)

		_, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"Daily Portions": nil,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown employee maps to not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		allergies := customColumn("Allergies", column.TypeText, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{allergies}, nil)
		deps.repo.EXPECT().
			Merge(ctx, domain.RoleCatering, employeeID, gomock.Any()).
			Return(gorm.ErrRecordNotFound)

		_, err := deps.service.Patch(ctx, domain.RoleCatering, employeeID, map[string]any{
			"Allergies": "nuts",
		})
		assert.ErrorIs(t, err, partydataerrors.ErrEmployeeNotFound)
	})
}

func TestPartyDataService_DeleteKeys(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.NewString()

	t.Run("owner removes own keys", func(t *testing.T) {
		deps := setupServiceTest(t)

		allergies := customColumn("Allergies", column.TypeText, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, []string{"allergies"}).
			Return([]column.Column{allergies}, nil)
		deps.repo.EXPECT().
			RemoveKeys(ctx, domain.RoleCatering, employeeID, []string{"Allergies"}).
			Return(nil)

		err := deps.service.DeleteKeys(ctx, domain.RoleCatering, employeeID, []string{"Allergies"})
		assert.NoError(t, err)
	})

	t.Run("editing permission is required per key", func(t *testing.T) {
		deps := setupServiceTest(t)

		allergies := customColumn("Allergies", column.TypeText, domain.RoleCatering)
		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return([]column.Column{allergies}, nil)

		err := deps.service.DeleteKeys(ctx, domain.RoleMedical, employeeID, []string{"Allergies"})
		assert.ErrorIs(t, err, projectionerrors.ErrWriteForbidden)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.columns.EXPECT().
			FindByNameKeys(ctx, gomock.Any()).
			Return(nil, nil)
		deps.repo.EXPECT().
			RemoveKeys(ctx, domain.RoleCatering, employeeID, []string{"Orphaned Key"}).
			Return(errors.New("db error"))

		err := deps.service.DeleteKeys(ctx, domain.RoleCatering, employeeID, []string{"Orphaned Key"})
		assert.Error(t, err)
	})
}
