package column_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	columnerrors "github.com/rthunborg/Masterdata-sub001/internal/column/errors"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeColumnService struct {
	ListFn           func(ctx context.Context) ([]column.ColumnResponse, error)
	ListActiveFn     func(ctx context.Context) ([]column.Column, error)
	CreateFn         func(ctx context.Context, actingRole domain.Role, req column.CreateColumnRequest) (column.ColumnResponse, error)
	UpdateFn         func(ctx context.Context, actingRole domain.Role, id string, req column.UpdateColumnRequest) (column.ColumnResponse, error)
	SetPermissionsFn func(ctx context.Context, actingRole domain.Role, id string, req column.SetPermissionsRequest) (column.ColumnResponse, error)
	HideFn           func(ctx context.Context, actingRole domain.Role, id string) (column.ColumnResponse, error)
	UnhideFn         func(ctx context.Context, actingRole domain.Role, id string, req column.UnhideColumnRequest) (column.ColumnResponse, error)
	DeleteFn         func(ctx context.Context, actingRole domain.Role, id string) (column.DeleteColumnResponse, error)
}

func (f *fakeColumnService) List(ctx context.Context) ([]column.ColumnResponse, error) {
	return f.ListFn(ctx)
}
func (f *fakeColumnService) ListActive(ctx context.Context) ([]column.Column, error) {
	return f.ListActiveFn(ctx)
}
func (f *fakeColumnService) Create(ctx context.Context, actingRole domain.Role, req column.CreateColumnRequest) (column.ColumnResponse, error) {
	return f.CreateFn(ctx, actingRole, req)
}
func (f *fakeColumnService) Update(ctx context.Context, actingRole domain.Role, id string, req column.UpdateColumnRequest) (column.ColumnResponse, error) {
	return f.UpdateFn(ctx, actingRole, id, req)
}
func (f *fakeColumnService) SetPermissions(ctx context.Context, actingRole domain.Role, id string, req column.SetPermissionsRequest) (column.ColumnResponse, error) {
	return f.SetPermissionsFn(ctx, actingRole, id, req)
}
func (f *fakeColumnService) Hide(ctx context.Context, actingRole domain.Role, id string) (column.ColumnResponse, error) {
	return f.HideFn(ctx, actingRole, id)
}
func (f *fakeColumnService) Unhide(ctx context.Context, actingRole domain.Role, id string, req column.UnhideColumnRequest) (column.ColumnResponse, error) {
	return f.UnhideFn(ctx, actingRole, id, req)
}
func (f *fakeColumnService) Delete(ctx context.Context, actingRole domain.Role, id string) (column.DeleteColumnResponse, error) {
	return f.DeleteFn(ctx, actingRole, id)
}

func TestColumnHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("sorted by name, filtered by category", func(t *testing.T) {
		svc := &fakeColumnService{
			ListFn: func(ctx context.Context) ([]column.ColumnResponse, error) {
				return []column.ColumnResponse{
					{ID: uuid.NewString(), Name: "Zebra", Category: "Dietary"},
					{ID: uuid.NewString(), Name: "allergies", Category: "Dietary"},
					{ID: uuid.NewString(), Name: "SSN", Category: "Employee Information"},
				}, nil
			},
		}

		h := column.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/columns?category=dietary", nil)

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got []column.ColumnResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "allergies", got[0].Name)
		assert.Equal(t, "Zebra", got[1].Name)
	})
}

func TestColumnHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeColumnService{
			CreateFn: func(ctx context.Context, actingRole domain.Role, req column.CreateColumnRequest) (column.ColumnResponse, error) {
				assert.Equal(t, domain.RoleCatering, actingRole)
				assert.Equal(t, "Allergies", req.Name)
				return column.ColumnResponse{ID: uuid.NewString(), Name: req.Name, Type: req.Type}, nil
			},
		}

		h := column.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"column_name":"Allergies","column_type":"text"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/columns", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("role", "catering")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got column.ColumnResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Allergies", got.Name)
	})

	t.Run("validation error", func(t *testing.T) {
		h := column.NewHandler(&fakeColumnService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/columns", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("role", "catering")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown caller role", func(t *testing.T) {
		h := column.NewHandler(&fakeColumnService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"column_name":"Allergies","column_type":"text"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/columns", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestColumnHandler_SetPermissions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("service error maps through apperror", func(t *testing.T) {
		svc := &fakeColumnService{
			SetPermissionsFn: func(ctx context.Context, actingRole domain.Role, id string, req column.SetPermissionsRequest) (column.ColumnResponse, error) {
				return column.ColumnResponse{}, columnerrors.ErrAdminOnly
			},
		}

		h := column.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"role_permissions":{"payroll":{"view":true,"edit":false}}}`
		c.Request = httptest.NewRequest(http.MethodPut, "/columns/x/permissions", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("role", "payroll")
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		h.SetPermissions(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestColumnHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns affected record count", func(t *testing.T) {
		targetID := uuid.NewString()
		svc := &fakeColumnService{
			DeleteFn: func(ctx context.Context, actingRole domain.Role, id string) (column.DeleteColumnResponse, error) {
				assert.Equal(t, targetID, id)
				return column.DeleteColumnResponse{AffectedRecords: 12}, nil
			},
		}

		h := column.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodDelete, "/columns/"+targetID, nil)
		c.Set("role", "hr_admin")
		c.Params = gin.Params{{Key: "id", Value: targetID}}

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		var got column.DeleteColumnResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(12), got.AffectedRecords)
	})
}
