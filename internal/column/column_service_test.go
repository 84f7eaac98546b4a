package column_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	columnerrors "github.com/rthunborg/Masterdata-sub001/internal/column/errors"
	columnMock "github.com/rthunborg/Masterdata-sub001/internal/column/mock"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	kafkaMock "github.com/rthunborg/Masterdata-sub001/internal/messaging/kafka/mock"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   column.Service
	repo      *columnMock.MockRepository
	cleaner   *fakeCleaner
	outbox    *kafkaMock.MockOutboxRepository
	redismock redismock.ClientMock
}

// fakeCleaner records cascade sweeps per party store and can fail some of
// them to exercise the best-effort path.
type fakeCleaner struct {
	counts  map[domain.Role]int64
	failFor map[domain.Role]error
	calls   []domain.Role
}

func (f *fakeCleaner) RemoveKeysForAll(_ context.Context, role domain.Role, _ []string) (int64, error) {
	f.calls = append(f.calls, role)
	if err, ok := f.failFor[role]; ok {
		return 0, err
	}
	return f.counts[role], nil
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	rdb, redisMock := redismock.NewClientMock()
	repo := columnMock.NewMockRepository(ctrl)
	cleaner := &fakeCleaner{counts: map[domain.Role]int64{}, failFor: map[domain.Role]error{}}
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := column.NewService(db, repo, cleaner, outboxRepo, rdb)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		cleaner:   cleaner,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestColumnService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()

	t.Run("success - creator gets view and edit", func(t *testing.T) {
		req := column.CreateColumnRequest{Name: "Allergies", Type: "text", Category: "Dietary"}

		deps.repo.EXPECT().
			FindByNameKey(ctx, "allergies").
			Return(nil, gorm.ErrRecordNotFound)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, col *column.Column) error {
				assert.Equal(t, "Allergies", col.Name)
				assert.Equal(t, "allergies", col.NameKey)
				assert.False(t, col.IsMasterdata)
				assert.Equal(t, "catering", col.CreatedBy)
				assert.True(t, col.RolePermissions.CanView(domain.RoleCatering))
				assert.True(t, col.RolePermissions.CanEdit(domain.RoleCatering))
				return nil
			})

		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.Create(ctx, domain.RoleCatering, req)

		assert.NoError(t, err)
		assert.Equal(t, "Allergies", resp.Name)
		assert.Equal(t, "Dietary", resp.Category)
		assert.True(t, resp.RolePermissions["catering"].Edit)
	})

	t.Run("hr_admin cannot create custom columns", func(t *testing.T) {
		_, err := deps.service.Create(ctx, domain.RoleHRAdmin, column.CreateColumnRequest{Name: "Notes", Type: "text"})
		assert.ErrorIs(t, err, columnerrors.ErrPartyRoleRequired)
	})

	t.Run("duplicate name is case insensitive", func(t *testing.T) {
		existing := &column.Column{ID: uuid.New(), Name: "Allergies", NameKey: "allergies"}

		deps.repo.EXPECT().
			FindByNameKey(ctx, "allergies").
			Return(existing, nil)

		_, err := deps.service.Create(ctx, domain.RoleMedical, column.CreateColumnRequest{Name: "ALLERGIES", Type: "text"})
		assert.ErrorIs(t, err, columnerrors.ErrColumnNameExists)
	})

	t.Run("rejects names outside the charset", func(t *testing.T) {
		_, err := deps.service.Create(ctx, domain.RoleCatering, column.CreateColumnRequest{Name: "bad;name", Type: "text"})
		assert.ErrorIs(t, err, columnerrors.ErrInvalidColumnName)
	})

	t.Run("rejects unknown column type", func(t *testing.T) {
		_, err := deps.service.Create(ctx, domain.RoleCatering, column.CreateColumnRequest{Name: "Shift", Type: "datetime"})
		assert.ErrorIs(t, err, columnerrors.ErrInvalidColumnType)
	})

	t.Run("db unique violation maps to conflict", func(t *testing.T) {
		deps.repo.EXPECT().
			FindByNameKey(ctx, "diet").
			Return(nil, gorm.ErrRecordNotFound)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_columns_name_key"})

		_, err := deps.service.Create(ctx, domain.RoleCatering, column.CreateColumnRequest{Name: "Diet", Type: "text"})
		assert.ErrorIs(t, err, columnerrors.ErrColumnNameExists)
	})
}

func TestColumnService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []column.ColumnResponse{{ID: uuid.NewString(), Name: "SSN"}}
		jsonData, _ := json.Marshal(cached)

		deps.redismock.ExpectGet(column.RegistryCacheKey).SetVal(string(jsonData))

		resp, err := deps.service.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "SSN", resp[0].Name)
	})

	t.Run("cache miss loads from db and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		col := column.Column{
			ID:           uuid.New(),
			Name:         "First Name",
			NameKey:      "first name",
			Type:         column.TypeText,
			IsMasterdata: true,
			MasterField:  "first_name",
		}
		expected := []column.ColumnResponse{{
			ID:              col.ID.String(),
			Name:            "First Name",
			Type:            "text",
			Category:        column.CategoryMasterdata,
			IsMasterdata:    true,
			MasterField:     "first_name",
			RolePermissions: map[string]column.PermissionDTO{},
		}}
		jsonData, _ := json.Marshal(expected)

		deps.redismock.ExpectGet(column.RegistryCacheKey).RedisNil()
		deps.repo.EXPECT().
			FindAll(ctx).
			Return([]column.Column{col}, nil).
			Times(1)
		deps.redismock.ExpectSet(column.RegistryCacheKey, jsonData, 1*time.Hour).SetVal("OK")

		resp, err := deps.service.List(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(column.RegistryCacheKey).RedisNil()
		deps.repo.EXPECT().
			FindAll(ctx).
			Return(nil, errors.New("database connection lost"))

		resp, err := deps.service.List(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestColumnService_Update(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	targetID := uuid.New()

	t.Run("owner renames own column", func(t *testing.T) {
		col := &column.Column{
			ID:      targetID,
			Name:    "Allergies",
			NameKey: "allergies",
			Type:    column.TypeText,
			RolePermissions: domain.PermissionMatrix{
				domain.RoleCatering: {View: true, Edit: true},
			},
		}
		newName := "Dietary Notes"

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)
		deps.repo.EXPECT().FindByNameKey(ctx, "dietary notes").Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *column.Column) error {
				assert.Equal(t, "Dietary Notes", c.Name)
				assert.Equal(t, "dietary notes", c.NameKey)
				return nil
			})
		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.Update(ctx, domain.RoleCatering, targetID.String(), column.UpdateColumnRequest{Name: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "Dietary Notes", resp.Name)
	})

	t.Run("rename to own current name passes the uniqueness check", func(t *testing.T) {
		col := &column.Column{
			ID:      targetID,
			Name:    "Allergies",
			NameKey: "allergies",
			RolePermissions: domain.PermissionMatrix{
				domain.RoleCatering: {View: true, Edit: true},
			},
		}
		sameName := "ALLERGIES"

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)
		deps.repo.EXPECT().FindByNameKey(ctx, "allergies").Return(col, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		_, err := deps.service.Update(ctx, domain.RoleCatering, targetID.String(), column.UpdateColumnRequest{Name: &sameName})
		assert.NoError(t, err)
	})

	t.Run("no edit permission", func(t *testing.T) {
		col := &column.Column{
			ID:   targetID,
			Name: "Allergies",
			RolePermissions: domain.PermissionMatrix{
				domain.RoleCatering: {View: true, Edit: true},
				domain.RoleMedical:  {View: true},
			},
		}
		newName := "Other"

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.Update(ctx, domain.RoleMedical, targetID.String(), column.UpdateColumnRequest{Name: &newName})
		assert.ErrorIs(t, err, columnerrors.ErrNoEditPermission)
	})

	t.Run("hr_admin has no implicit edit on custom columns", func(t *testing.T) {
		col := &column.Column{
			ID:   targetID,
			Name: "Allergies",
			RolePermissions: domain.PermissionMatrix{
				domain.RoleCatering: {View: true, Edit: true},
			},
		}
		newName := "Other"

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.Update(ctx, domain.RoleHRAdmin, targetID.String(), column.UpdateColumnRequest{Name: &newName})
		assert.ErrorIs(t, err, columnerrors.ErrNoEditPermission)
	})

	t.Run("masterdata cannot be recategorized", func(t *testing.T) {
		col := &column.Column{
			ID:           targetID,
			Name:         "SSN",
			IsMasterdata: true,
		}
		cat := "Sensitive"

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.Update(ctx, domain.RoleHRAdmin, targetID.String(), column.UpdateColumnRequest{Category: &cat})
		assert.ErrorIs(t, err, columnerrors.ErrMasterdataCategoryFixed)
	})
}

func TestColumnService_SetPermissions(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	targetID := uuid.New()

	t.Run("admin only", func(t *testing.T) {
		_, err := deps.service.SetPermissions(ctx, domain.RolePayroll, targetID.String(), column.SetPermissionsRequest{})
		assert.ErrorIs(t, err, columnerrors.ErrAdminOnly)
	})

	t.Run("success replaces the matrix", func(t *testing.T) {
		col := &column.Column{ID: targetID, Name: "SSN", IsMasterdata: true, MasterField: "ssn"}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *column.Column) error {
				assert.True(t, c.RolePermissions.CanView(domain.RolePayroll))
				assert.False(t, c.RolePermissions.CanView(domain.RoleCatering))
				return nil
			})
		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.SetPermissions(ctx, domain.RoleHRAdmin, targetID.String(), column.SetPermissionsRequest{
			RolePermissions: map[string]column.PermissionDTO{
				"payroll": {View: true},
			},
		})

		assert.NoError(t, err)
		assert.True(t, resp.RolePermissions["payroll"].View)
	})

	t.Run("edit without view is rejected", func(t *testing.T) {
		col := &column.Column{ID: targetID, Name: "SSN", IsMasterdata: true}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.SetPermissions(ctx, domain.RoleHRAdmin, targetID.String(), column.SetPermissionsRequest{
			RolePermissions: map[string]column.PermissionDTO{
				"payroll": {View: false, Edit: true},
			},
		})
		assert.ErrorIs(t, err, columnerrors.ErrEditRequiresView)
	})

	t.Run("hr_admin row is rejected", func(t *testing.T) {
		col := &column.Column{ID: targetID, Name: "SSN", IsMasterdata: true}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.SetPermissions(ctx, domain.RoleHRAdmin, targetID.String(), column.SetPermissionsRequest{
			RolePermissions: map[string]column.PermissionDTO{
				"hr_admin": {View: true, Edit: true},
			},
		})
		assert.ErrorIs(t, err, columnerrors.ErrAdminRowImmutable)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		col := &column.Column{ID: targetID, Name: "SSN", IsMasterdata: true}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.SetPermissions(ctx, domain.RoleHRAdmin, targetID.String(), column.SetPermissionsRequest{
			RolePermissions: map[string]column.PermissionDTO{
				"janitor": {View: true},
			},
		})
		assert.ErrorIs(t, err, columnerrors.ErrUnknownRole)
	})
}

func TestColumnService_HideUnhide(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	targetID := uuid.New()

	t.Run("hide zeroes every party row", func(t *testing.T) {
		col := &column.Column{
			ID:   targetID,
			Name: "Allergies",
			RolePermissions: domain.PermissionMatrix{
				domain.RoleCatering: {View: true, Edit: true},
				domain.RoleMedical:  {View: true},
			},
		}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *column.Column) error {
				for _, role := range domain.PartyRoles() {
					assert.False(t, c.RolePermissions.CanView(role))
				}
				return nil
			})
		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		_, err := deps.service.Hide(ctx, domain.RoleHRAdmin, targetID.String())
		assert.NoError(t, err)
	})

	t.Run("unhide restores a saved matrix", func(t *testing.T) {
		col := &column.Column{
			ID:              targetID,
			Name:            "Allergies",
			RolePermissions: domain.PermissionMatrix{domain.RoleCatering: {}},
		}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *column.Column) error {
				assert.True(t, c.RolePermissions.CanEdit(domain.RoleCatering))
				return nil
			})
		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.Unhide(ctx, domain.RoleHRAdmin, targetID.String(), column.UnhideColumnRequest{
			RolePermissions: map[string]column.PermissionDTO{
				"catering": {View: true, Edit: true},
			},
		})

		assert.NoError(t, err)
		assert.True(t, resp.RolePermissions["catering"].Edit)
	})

	t.Run("hide is admin only", func(t *testing.T) {
		_, err := deps.service.Hide(ctx, domain.RoleCatering, targetID.String())
		assert.ErrorIs(t, err, columnerrors.ErrAdminOnly)
	})
}

func TestColumnService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success sweeps every party store", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		targetID := uuid.New()
		col := &column.Column{ID: targetID, Name: "Allergies"}
		deps.cleaner.counts = map[domain.Role]int64{
			domain.RoleCatering: 5,
			domain.RoleMedical:  2,
		}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, targetID.String()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.Delete(ctx, domain.RoleHRAdmin, targetID.String())

		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.AffectedRecords)
		assert.Len(t, deps.cleaner.calls, len(domain.PartyRoles()))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failed party store is skipped, not rolled back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		targetID := uuid.New()
		col := &column.Column{ID: targetID, Name: "Allergies"}
		deps.cleaner.counts = map[domain.Role]int64{domain.RoleCatering: 3}
		deps.cleaner.failFor = map[domain.Role]error{domain.RoleMedical: errors.New("db error")}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, targetID.String()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		deps.redismock.ExpectDel(column.RegistryCacheKey).SetVal(1)

		resp, err := deps.service.Delete(ctx, domain.RoleHRAdmin, targetID.String())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), resp.AffectedRecords)
		assert.Len(t, deps.cleaner.calls, len(domain.PartyRoles()))
	})

	t.Run("masterdata cannot be deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		targetID := uuid.New()
		col := &column.Column{ID: targetID, Name: "SSN", IsMasterdata: true, MasterField: "ssn"}

		deps.repo.EXPECT().FindByID(ctx, targetID.String()).Return(col, nil)

		_, err := deps.service.Delete(ctx, domain.RoleHRAdmin, targetID.String())
		assert.ErrorIs(t, err, columnerrors.ErrMasterdataUndeletable)
		assert.Empty(t, deps.cleaner.calls)
	})

	t.Run("admin only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Delete(ctx, domain.RoleCatering, uuid.NewString())
		assert.ErrorIs(t, err, columnerrors.ErrAdminOnly)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		targetID := uuid.New()

		deps.repo.EXPECT().
			FindByID(ctx, targetID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Delete(ctx, domain.RoleHRAdmin, targetID.String())
		assert.ErrorIs(t, err, columnerrors.ErrColumnNotFound)
	})
}
