package partydata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	partydataerrors "github.com/rthunborg/Masterdata-sub001/internal/partydata/errors"
	"github.com/rthunborg/Masterdata-sub001/internal/projection"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/contextutil"
)

//go:generate mockgen -source=partydata_service.go -destination=mock/partydata_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, role domain.Role, employeeID string) (PartyDataResponse, error)
	Patch(ctx context.Context, role domain.Role, employeeID string, updates map[string]any) (PartyDataResponse, error)
	DeleteKeys(ctx context.Context, role domain.Role, employeeID string, names []string) error
}

type service struct {
	repo    Repository
	columns column.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, columns column.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("partydata.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("partydata.service")
	}
	return &service{repo: repo, columns: columns, logger: l}
}

func (s *service) Get(
	ctx context.Context,
	role domain.Role,
	employeeID string,
) (PartyDataResponse, error) {
	if !role.IsParty() {
		return PartyDataResponse{}, partydataerrors.ErrUnsupportedRole
	}

	doc, err := s.repo.Get(ctx, role, employeeID)
	if err != nil {
		return PartyDataResponse{}, mapRepositoryError(err)
	}

	return PartyDataResponse{EmployeeID: employeeID, Data: doc}, nil
}

// Patch merges updates into the caller's own document for one employee.
// Every key is resolved against the registry and authorized before any
// persistence happens; a single bad key rejects the whole patch.
func (s *service) Patch(
	ctx context.Context,
	role domain.Role,
	employeeID string,
	updates map[string]any,
) (PartyDataResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("patch party data requested",
		zap.String("request_id", rid),
		zap.String("role", role.String()),
		zap.String("employee_id", employeeID),
		zap.Int("keys", len(updates)),
	)

	if !role.IsParty() {
		return PartyDataResponse{}, partydataerrors.ErrUnsupportedRole
	}

	coerced, err := s.validateUpdates(ctx, role, updates)
	if err != nil {
		return PartyDataResponse{}, err
	}

	if err := s.repo.Merge(ctx, role, employeeID, coerced); err != nil {
		s.logger.Error("patch party data persist failed", zap.Error(err))
		return PartyDataResponse{}, mapRepositoryError(err)
	}

	doc, err := s.repo.Get(ctx, role, employeeID)
	if err != nil {
		return PartyDataResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("patch party data success",
		zap.String("request_id", rid),
		zap.String("role", role.String()),
		zap.String("employee_id", employeeID),
	)

	return PartyDataResponse{EmployeeID: employeeID, Data: doc}, nil
}

func (s *service) DeleteKeys(
	ctx context.Context,
	role domain.Role,
	employeeID string,
	names []string,
) error {
	if !role.IsParty() {
		return partydataerrors.ErrUnsupportedRole
	}

	// Keys that resolve to a column require edit permission; keys that
	// resolve to nothing were already cascade-cleaned and removing them is
	// harmless.
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := column.NameKeyOf(name)
		if key == "" {
			continue
		}
		keys = append(keys, name)
	}
	cols, err := s.resolveColumns(ctx, keys)
	if err != nil {
		return err
	}
	for _, col := range cols {
		if err := projection.AuthorizeWrite(col, role); err != nil {
			return err
		}
	}

	if err := s.repo.RemoveKeys(ctx, role, employeeID, keys); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("delete party data keys success",
		zap.String("role", role.String()),
		zap.String("employee_id", employeeID),
		zap.Int("keys", len(keys)),
	)
	return nil
}

// validateUpdates resolves every key to a registered custom column, checks
// edit permission, and coerces values to the declared column type.
func (s *service) validateUpdates(
	ctx context.Context,
	role domain.Role,
	updates map[string]any,
) (Document, error) {
	if len(updates) == 0 {
		return Document{}, nil
	}

	keys := make([]string, 0, len(updates))
	for name := range updates {
		keys = append(keys, column.NameKeyOf(name))
	}
	cols, err := s.columns.FindByNameKeys(ctx, keys)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	byKey := make(map[string]column.Column, len(cols))
	for _, c := range cols {
		byKey[c.NameKey] = c
	}

	coerced := Document{}
	for name, value := range updates {
		col, ok := byKey[column.NameKeyOf(name)]
		if !ok {
			return nil, partydataerrors.ErrUnknownColumn
		}
		if col.IsMasterdata {
			return nil, partydataerrors.ErrMasterdataKey
		}
		if err := projection.AuthorizeWrite(col, role); err != nil {
			return nil, err
		}
		v, err := coerceValue(col.Type, value)
		if err != nil {
			return nil, err
		}
		// Store under the canonical column name so cascade deletion and
		// projection agree on the key.
		coerced[col.Name] = v
	}
	return coerced, nil
}

func (s *service) resolveColumns(ctx context.Context, names []string) ([]column.Column, error) {
	if len(names) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, column.NameKeyOf(n))
	}
	cols, err := s.columns.FindByNameKeys(ctx, keys)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return cols, nil
}

func coerceValue(t column.Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch t {
	case column.TypeText:
		s, ok := value.(string)
		if !ok {
			return nil, partydataerrors.ErrValueType
		}
		return s, nil
	case column.TypeNumber:
		switch n := value.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, partydataerrors.ErrValueType
	case column.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, partydataerrors.ErrValueType
		}
		return b, nil
	case column.TypeDate:
		s, ok := value.(string)
		if !ok {
			return nil, partydataerrors.ErrValueType
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, partydataerrors.ErrValueType
		}
		return s, nil
	}
	return nil, partydataerrors.ErrValueType
}
