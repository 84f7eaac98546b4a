package column

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	columnerrors "github.com/rthunborg/Masterdata-sub001/internal/column/errors"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/events"
	"github.com/rthunborg/Masterdata-sub001/internal/messaging/kafka"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/contextutil"
)

const RegistryCacheKey = "columns:registry"

// Allowed charset for column names: letters, numbers, spaces and a small
// punctuation set. Everything else is rejected up front.
var nameCharset = regexp.MustCompile(`^[A-Za-z0-9 \-_()/.,]+$`)

//go:generate mockgen -source=column_service.go -destination=mock/column_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]ColumnResponse, error)
	ListActive(ctx context.Context) ([]Column, error)
	Create(ctx context.Context, actingRole domain.Role, req CreateColumnRequest) (ColumnResponse, error)
	Update(ctx context.Context, actingRole domain.Role, id string, req UpdateColumnRequest) (ColumnResponse, error)
	SetPermissions(ctx context.Context, actingRole domain.Role, id string, req SetPermissionsRequest) (ColumnResponse, error)
	Hide(ctx context.Context, actingRole domain.Role, id string) (ColumnResponse, error)
	Unhide(ctx context.Context, actingRole domain.Role, id string, req UnhideColumnRequest) (ColumnResponse, error)
	Delete(ctx context.Context, actingRole domain.Role, id string) (DeleteColumnResponse, error)
}

// PartyDataCleaner is the slice of the party data store the registry needs
// for cascading deletes. Satisfied by partydata.Repository.
type PartyDataCleaner interface {
	RemoveKeysForAll(ctx context.Context, role domain.Role, keys []string) (int64, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	cleaner PartyDataCleaner
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	cleaner PartyDataCleaner,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("column.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("column.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		cleaner: cleaner,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) List(ctx context.Context) ([]ColumnResponse, error) {
	// 1. Check Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, RegistryCacheKey).Result(); err == nil {
			var resp []ColumnResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight so a cache miss under load hits the DB once
	v, err, _ := s.sf.Do(RegistryCacheKey, func() (interface{}, error) {
		cols, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(cols)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, RegistryCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]ColumnResponse), nil
}

// ListActive returns the raw column entities for in-process consumers
// (projection, party data writes, export). Not cached: those paths already
// run per request and need the typed permission matrix, not the DTO.
func (s *service) ListActive(ctx context.Context) ([]Column, error) {
	cols, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return cols, nil
}

func (s *service) Create(
	ctx context.Context,
	actingRole domain.Role,
	req CreateColumnRequest,
) (ColumnResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create column requested",
		zap.String("request_id", rid),
		zap.String("role", actingRole.String()),
		zap.String("column_name", req.Name),
	)

	// Custom columns belong to the creating party. HR admin manages
	// permissions but never owns a custom column.
	if !actingRole.IsParty() {
		s.logger.Warn("create column rejected for non-party role",
			zap.String("role", actingRole.String()),
		)
		return ColumnResponse{}, columnerrors.ErrPartyRoleRequired
	}

	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return ColumnResponse{}, err
	}

	colType, ok := ParseType(req.Type)
	if !ok {
		return ColumnResponse{}, columnerrors.ErrInvalidColumnType
	}

	if err := s.ensureNameAvailable(ctx, name, ""); err != nil {
		return ColumnResponse{}, err
	}

	// Creator gets view+edit so the column is immediately usable.
	perms, err := domain.PermissionMatrix{}.Set(actingRole, domain.Permission{View: true, Edit: true})
	if err != nil {
		return ColumnResponse{}, columnerrors.ErrAdminRowImmutable
	}

	col := &Column{
		ID:              uuid.New(),
		Name:            name,
		NameKey:         NameKeyOf(name),
		Type:            colType,
		IsMasterdata:    false,
		Category:        strings.TrimSpace(req.Category),
		RolePermissions: perms,
		CreatedBy:       actingRole.String(),
	}

	if err := s.repo.Create(ctx, col); err != nil {
		s.logger.Error("create column persist failed", zap.Error(err))
		return ColumnResponse{}, mapRepositoryError(err)
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("create column success",
		zap.String("request_id", rid),
		zap.String("column_id", col.ID.String()),
		zap.String("role", actingRole.String()),
	)

	return mapToResponse(*col), nil
}

func (s *service) Update(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	req UpdateColumnRequest,
) (ColumnResponse, error) {
	s.logger.Debug("update column requested",
		zap.String("column_id", id),
		zap.String("role", actingRole.String()),
	)

	col, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	// Rename/recategorize requires edit permission on the column itself.
	// For HR admin that resolves structurally on masterdata and to the
	// stored matrix (always no) on custom columns.
	if !col.CanEdit(actingRole) {
		s.logger.Warn("update column forbidden",
			zap.String("column_id", id),
			zap.String("role", actingRole.String()),
		)
		return ColumnResponse{}, columnerrors.ErrNoEditPermission
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return ColumnResponse{}, err
		}
		if err := s.ensureNameAvailable(ctx, name, col.ID.String()); err != nil {
			return ColumnResponse{}, err
		}
		col.Name = name
		col.NameKey = NameKeyOf(name)
	}

	if req.Category != nil {
		if col.IsMasterdata {
			return ColumnResponse{}, columnerrors.ErrMasterdataCategoryFixed
		}
		col.Category = strings.TrimSpace(*req.Category)
	}

	if err := s.repo.Update(ctx, col); err != nil {
		s.logger.Error("update column persist failed", zap.Error(err))
		return ColumnResponse{}, mapRepositoryError(err)
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("update column success", zap.String("column_id", id))
	return mapToResponse(*col), nil
}

func (s *service) SetPermissions(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	req SetPermissionsRequest,
) (ColumnResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return ColumnResponse{}, columnerrors.ErrAdminOnly
	}

	col, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	matrix, err := matrixFromDTO(req.RolePermissions)
	if err != nil {
		return ColumnResponse{}, err
	}

	col.RolePermissions = matrix
	if err := s.repo.Update(ctx, col); err != nil {
		s.logger.Error("set permissions persist failed", zap.Error(err))
		return ColumnResponse{}, mapRepositoryError(err)
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("set permissions success",
		zap.String("column_id", id),
		zap.Int("roles", len(matrix)),
	)
	return mapToResponse(*col), nil
}

// Hide zeroes the whole matrix atomically. The caller is expected to keep
// the previous matrix if it intends to unhide later; no history is stored.
func (s *service) Hide(
	ctx context.Context,
	actingRole domain.Role,
	id string,
) (ColumnResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return ColumnResponse{}, columnerrors.ErrAdminOnly
	}

	col, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	col.RolePermissions = col.RolePermissions.Hide()
	if err := s.repo.Update(ctx, col); err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("hide column success", zap.String("column_id", id))
	return mapToResponse(*col), nil
}

func (s *service) Unhide(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	req UnhideColumnRequest,
) (ColumnResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return ColumnResponse{}, columnerrors.ErrAdminOnly
	}

	col, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	saved, err := matrixFromDTO(req.RolePermissions)
	if err != nil {
		return ColumnResponse{}, err
	}

	restored, err := col.RolePermissions.Unhide(saved)
	if err != nil {
		return ColumnResponse{}, mapPermissionError(err)
	}

	col.RolePermissions = restored
	if err := s.repo.Update(ctx, col); err != nil {
		return ColumnResponse{}, mapRepositoryError(err)
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("unhide column success", zap.String("column_id", id))
	return mapToResponse(*col), nil
}

// Delete removes a custom column definition and then sweeps its key out of
// every party store. The sweep is best effort across independent tables: a
// failed table is logged and skipped, never rolled back. Accepted tradeoff:
// after a partial sweep some documents may briefly keep a dangling key, and
// affected_records undercounts.
func (s *service) Delete(
	ctx context.Context,
	actingRole domain.Role,
	id string,
) (DeleteColumnResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete column requested",
		zap.String("request_id", rid),
		zap.String("column_id", id),
		zap.String("role", actingRole.String()),
	)

	if actingRole != domain.RoleHRAdmin {
		return DeleteColumnResponse{}, columnerrors.ErrAdminOnly
	}

	col, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeleteColumnResponse{}, mapRepositoryError(err)
	}

	if col.IsMasterdata {
		s.logger.Warn("delete column rejected for masterdata",
			zap.String("column_id", id),
		)
		return DeleteColumnResponse{}, columnerrors.ErrMasterdataUndeletable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete column begin tx failed", zap.Error(err))
		return DeleteColumnResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		s.logger.Error("delete column persist failed", zap.Error(err))
		return DeleteColumnResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.ColumnDeletedEvent{
			EventType:  "column_deleted",
			RequestID:  rid,
			ColumnID:   col.ID.String(),
			ColumnName: col.Name,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal column_deleted event failed", zap.Error(err))
			return DeleteColumnResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "column",
			AggregateID:   col.ID.String(),
			EventType:     event.EventType,
			Topic:         events.ColumnLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("delete column outbox persist failed", zap.Error(err))
			return DeleteColumnResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete column commit failed", zap.Error(err))
		return DeleteColumnResponse{}, err
	}

	// Best-effort cascade across the party stores.
	var affected int64
	for _, role := range domain.PartyRoles() {
		n, err := s.cleaner.RemoveKeysForAll(ctx, role, []string{col.Name})
		if err != nil {
			s.logger.Error("cascade cleanup failed for party store",
				zap.String("column_id", id),
				zap.String("column_name", col.Name),
				zap.String("party", role.String()),
				zap.Error(err),
			)
			continue
		}
		affected += n
	}

	s.invalidateRegistryCache(ctx)

	s.logger.Info("delete column success",
		zap.String("request_id", rid),
		zap.String("column_id", id),
		zap.Int64("affected_records", affected),
	)

	return DeleteColumnResponse{AffectedRecords: affected}, nil
}

func (s *service) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByNameKey(ctx, NameKeyOf(name))
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return mapRepositoryError(err)
	}
	if existing.ID.String() == selfID {
		return nil
	}
	return columnerrors.ErrColumnNameExists
}

func (s *service) invalidateRegistryCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RegistryCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate registry cache",
			zap.Error(err),
			zap.String("key", RegistryCacheKey),
		)
	}
}

func validateName(name string) error {
	if len(name) < 1 || len(name) > 100 {
		return columnerrors.ErrInvalidColumnName
	}
	if !nameCharset.MatchString(name) {
		return columnerrors.ErrInvalidColumnName
	}
	return nil
}

func matrixFromDTO(dto map[string]PermissionDTO) (domain.PermissionMatrix, error) {
	matrix := domain.PermissionMatrix{}
	for roleName, p := range dto {
		role, err := domain.ParseRole(roleName)
		if err != nil {
			return nil, columnerrors.ErrUnknownRole
		}
		matrix, err = matrix.Set(role, domain.Permission{View: p.View, Edit: p.Edit})
		if err != nil {
			return nil, mapPermissionError(err)
		}
	}
	return matrix, nil
}

func mapToResponse(col Column) ColumnResponse {
	perms := make(map[string]PermissionDTO, len(col.RolePermissions))
	for role, p := range col.RolePermissions {
		perms[role.String()] = PermissionDTO{View: p.View, Edit: p.Edit}
	}
	return ColumnResponse{
		ID:              col.ID.String(),
		Name:            col.Name,
		Type:            string(col.Type),
		Category:        col.DisplayCategory(),
		IsMasterdata:    col.IsMasterdata,
		MasterField:     col.MasterField,
		RolePermissions: perms,
	}
}

func mapToListResponse(cols []Column) []ColumnResponse {
	res := make([]ColumnResponse, len(cols))
	for i, c := range cols {
		res[i] = mapToResponse(c)
	}
	return res
}
