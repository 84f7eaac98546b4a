package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/column"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	employeeerrors "github.com/rthunborg/Masterdata-sub001/internal/employee/errors"
	"github.com/rthunborg/Masterdata-sub001/internal/events"
	"github.com/rthunborg/Masterdata-sub001/internal/messaging/kafka"
	"github.com/rthunborg/Masterdata-sub001/internal/partydata"
	"github.com/rthunborg/Masterdata-sub001/internal/projection"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/contextutil"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/counter"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actingRole domain.Role, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, role domain.Role) ([]ProjectedEmployeeResponse, error)
	GetByID(ctx context.Context, role domain.Role, id string) (ProjectedEmployeeResponse, error)
	Update(ctx context.Context, actingRole domain.Role, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	UpdateFields(ctx context.Context, role domain.Role, id string, updates map[string]any) (ProjectedEmployeeResponse, error)
	Archive(ctx context.Context, actingRole domain.Role, id string, archived bool) (EmployeeResponse, error)
	Terminate(ctx context.Context, actingRole domain.Role, id string, req TerminateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, actingRole domain.Role, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	columns   column.Repository
	partyData partydata.Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	columns column.Repository,
	partyData partydata.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		columns:   columns,
		partyData: partyData,
		counter:   counterRepo,
		outbox:    outboxRepo,
		logger:    l,
	}
}

func (s *service) Create(
	ctx context.Context,
	actingRole domain.Role,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("role", actingRole.String()),
		zap.String("ssn", maskSSN(req.SSN)),
	)

	if actingRole != domain.RoleHRAdmin {
		return EmployeeResponse{}, employeeerrors.ErrAdminOnly
	}

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		s.logger.Warn("create employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDate
		}
		birthDate = &parsed
	}

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	empl := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: req.EmployeeNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		SSN:            req.SSN,
		Email:          req.Email,
		Mobile:         req.Mobile,
		Rank:           req.Rank,
		Address:        req.Address,
		BirthDate:      birthDate,
		HireDate:       hireDate,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueChangeEvent(ctx, tx, events.EmployeeCreated, nil, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

// GetAll returns every employee narrowed to the columns the role may view.
// HR admin resolves to the full masterdata set structurally; party roles
// additionally see their own custom column values.
func (s *service) GetAll(
	ctx context.Context,
	role domain.Role,
) ([]ProjectedEmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("role", role.String()))

	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	cols, err := s.columns.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees load registry failed", zap.Error(err))
		return nil, err
	}

	var docs map[string]partydata.Document
	if role.IsParty() {
		docs, err = s.partyData.GetAll(ctx, role)
		if err != nil {
			s.logger.Error("get all employees load party data failed", zap.Error(err))
			return nil, err
		}
	}

	res := make([]ProjectedEmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = ProjectedEmployeeResponse{
			ID:           e.ID.String(),
			IsArchived:   e.IsArchived,
			IsTerminated: e.IsTerminated,
			Columns:      projection.ForRead(e.MasterdataMap(), cols, docs[e.ID.String()], role),
		}
	}
	return res, nil
}

func (s *service) GetByID(
	ctx context.Context,
	role domain.Role,
	id string,
) (ProjectedEmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProjectedEmployeeResponse{}, mapRepositoryError(err)
	}

	cols, err := s.columns.FindAll(ctx)
	if err != nil {
		return ProjectedEmployeeResponse{}, err
	}

	var doc partydata.Document
	if role.IsParty() {
		doc, err = s.partyData.Get(ctx, role, id)
		if err != nil {
			return ProjectedEmployeeResponse{}, err
		}
	}

	return ProjectedEmployeeResponse{
		ID:           empl.ID.String(),
		IsArchived:   empl.IsArchived,
		IsTerminated: empl.IsTerminated,
		Columns:      projection.ForRead(empl.MasterdataMap(), cols, doc, role),
	}, nil
}

func (s *service) Update(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if actingRole != domain.RoleHRAdmin {
		return EmployeeResponse{}, employeeerrors.ErrAdminOnly
	}

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}
	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDate
		}
		birthDate = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	old := *empl

	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.SSN = req.SSN
	empl.Email = req.Email
	empl.Mobile = req.Mobile
	empl.Rank = req.Rank
	empl.Address = req.Address
	empl.BirthDate = birthDate
	empl.HireDate = hireDate

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueChangeEvent(ctx, tx, events.EmployeeUpdated, &old, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

// UpdateFields is the matrix-scoped masterdata write path: any role may use
// it, but each key must resolve to a masterdata column the role can edit.
// Lifecycle flags have their own operations and are not writable here.
func (s *service) UpdateFields(
	ctx context.Context,
	role domain.Role,
	id string,
	updates map[string]any,
) (ProjectedEmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee fields requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("role", role.String()),
		zap.Int("keys", len(updates)),
	)

	cols, err := s.resolveMasterColumns(ctx, role, updates)
	if err != nil {
		return ProjectedEmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee fields begin tx failed", zap.Error(err))
		return ProjectedEmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return ProjectedEmployeeResponse{}, mapRepositoryError(err)
	}
	old := *empl

	for name, value := range updates {
		col := cols[column.NameKeyOf(name)]
		if err := applyMasterField(empl, col.MasterField, value); err != nil {
			return ProjectedEmployeeResponse{}, err
		}
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee fields persist failed", zap.Error(err))
		return ProjectedEmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueChangeEvent(ctx, tx, events.EmployeeUpdated, &old, empl); err != nil {
		return ProjectedEmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee fields commit failed", zap.Error(err))
		return ProjectedEmployeeResponse{}, err
	}

	s.logger.Info("update employee fields success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("role", role.String()),
	)

	return s.GetByID(ctx, role, id)
}

func (s *service) Archive(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	archived bool,
) (EmployeeResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return EmployeeResponse{}, employeeerrors.ErrAdminOnly
	}

	eventType := events.EmployeeArchived
	if !archived {
		eventType = events.EmployeeUpdated
	}

	return s.mutateLifecycle(ctx, id, eventType, func(empl *Employee) error {
		empl.IsArchived = archived
		return nil
	})
}

func (s *service) Terminate(
	ctx context.Context,
	actingRole domain.Role,
	id string,
	req TerminateEmployeeRequest,
) (EmployeeResponse, error) {
	if actingRole != domain.RoleHRAdmin {
		return EmployeeResponse{}, employeeerrors.ErrAdminOnly
	}

	terminationDate := time.Now().UTC()
	if req.TerminationDate != "" {
		parsed, err := time.Parse(dateLayout, req.TerminationDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDate
		}
		terminationDate = parsed
	}

	return s.mutateLifecycle(ctx, id, events.EmployeeTerminated, func(empl *Employee) error {
		empl.IsTerminated = true
		empl.TerminationDate = &terminationDate
		empl.TerminationReason = req.TerminationReason
		return nil
	})
}

func (s *service) Delete(
	ctx context.Context,
	actingRole domain.Role,
	id string,
) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if actingRole != domain.RoleHRAdmin {
		return employeeerrors.ErrAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.queueDeleteEvent(ctx, tx, empl); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) mutateLifecycle(
	ctx context.Context,
	id string,
	eventType string,
	mutate func(*Employee) error,
) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("lifecycle begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	old := *empl

	if err := mutate(empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("lifecycle persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueChangeEvent(ctx, tx, eventType, &old, empl); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("lifecycle commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee lifecycle change success",
		zap.String("employee_id", id),
		zap.String("event_type", eventType),
	)
	return mapToResponse(*empl), nil
}

// resolveMasterColumns maps update keys to masterdata columns and runs the
// write authorization for each before anything is persisted.
func (s *service) resolveMasterColumns(
	ctx context.Context,
	role domain.Role,
	updates map[string]any,
) (map[string]column.Column, error) {
	if len(updates) == 0 {
		return map[string]column.Column{}, nil
	}

	keys := make([]string, 0, len(updates))
	for name := range updates {
		keys = append(keys, column.NameKeyOf(name))
	}

	cols, err := s.columns.FindByNameKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]column.Column, len(cols))
	for _, c := range cols {
		byKey[c.NameKey] = c
	}

	for name := range updates {
		col, ok := byKey[column.NameKeyOf(name)]
		if !ok {
			return nil, employeeerrors.ErrUnknownField
		}
		if !col.IsMasterdata {
			return nil, employeeerrors.ErrCustomFieldPath
		}
		if err := projection.AuthorizeWrite(col, role); err != nil {
			return nil, err
		}
	}
	return byKey, nil
}

func (s *service) queueChangeEvent(
	ctx context.Context,
	tx *sql.Tx,
	eventType string,
	old *Employee,
	updated *Employee,
) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EmployeeChangedEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: updated.ID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if old != nil {
		snap := old.Snapshot()
		event.Old = &snap
	}
	newSnap := updated.Snapshot()
	event.New = &newSnap

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal employee event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   updated.ID.String(),
		EventType:     eventType,
		Topic:         events.EmployeeChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("employee outbox persist failed",
			zap.String("employee_id", updated.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) queueDeleteEvent(ctx context.Context, tx *sql.Tx, empl *Employee) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	snap := empl.Snapshot()
	event := events.EmployeeChangedEvent{
		EventType:  events.EmployeeDeleted,
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		Old:        &snap,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func applyMasterField(empl *Employee, field string, value any) error {
	switch field {
	case FieldFirstName, FieldLastName, FieldSSN, FieldEmail, FieldMobile,
		FieldRank, FieldAddress, FieldEmployeeNumber, FieldTerminationReason:
		s, ok := value.(string)
		if !ok {
			return employeeerrors.ErrFieldValueType
		}
		switch field {
		case FieldFirstName:
			empl.FirstName = s
		case FieldLastName:
			empl.LastName = s
		case FieldSSN:
			empl.SSN = s
		case FieldEmail:
			empl.Email = s
		case FieldMobile:
			empl.Mobile = s
		case FieldRank:
			empl.Rank = s
		case FieldAddress:
			empl.Address = s
		case FieldEmployeeNumber:
			empl.EmployeeNumber = s
		case FieldTerminationReason:
			empl.TerminationReason = s
		}
		return nil
	case FieldBirthDate, FieldHireDate, FieldTerminationDate:
		s, ok := value.(string)
		if !ok {
			return employeeerrors.ErrFieldValueType
		}
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return employeeerrors.ErrInvalidDate
		}
		switch field {
		case FieldBirthDate:
			empl.BirthDate = &parsed
		case FieldHireDate:
			empl.HireDate = parsed
		case FieldTerminationDate:
			empl.TerminationDate = &parsed
		}
		return nil
	case FieldIsArchived, FieldIsTerminated:
		// Archive/terminate have their own operations with their own audit
		// trail.
		return employeeerrors.ErrFieldNotWritable
	default:
		return employeeerrors.ErrUnknownField
	}
}

func maskSSN(ssn string) string {
	if len(ssn) <= 4 {
		return "****"
	}
	return "****" + ssn[len(ssn)-4:]
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                empl.ID.String(),
		EmployeeNumber:    empl.EmployeeNumber,
		FirstName:         empl.FirstName,
		LastName:          empl.LastName,
		SSN:               empl.SSN,
		Email:             empl.Email,
		Mobile:            empl.Mobile,
		Rank:              empl.Rank,
		Address:           empl.Address,
		HireDate:          empl.HireDate.Format(dateLayout),
		IsArchived:        empl.IsArchived,
		IsTerminated:      empl.IsTerminated,
		TerminationReason: empl.TerminationReason,
	}
	if empl.BirthDate != nil {
		resp.BirthDate = empl.BirthDate.Format(dateLayout)
	}
	if empl.TerminationDate != nil {
		resp.TerminationDate = empl.TerminationDate.Format(dateLayout)
	}
	return resp
}
