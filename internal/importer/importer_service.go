package importer

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/employee"
	importererrors "github.com/rthunborg/Masterdata-sub001/internal/importer/errors"
)

//go:generate mockgen -source=importer_service.go -destination=mock/importer_service_mock.go -package=mock
type Service interface {
	ImportEmployees(ctx context.Context, actingRole domain.Role, r io.Reader, mapping Mapping) (ImportResult, error)
	ExportEmployees(ctx context.Context, role domain.Role, w io.Writer) error
}

type service struct {
	employees employee.Service
	logger    *zap.Logger
}

func NewService(employees employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("importer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("importer.service")
	}
	return &service{employees: employees, logger: l}
}

// DefaultMapping covers the headers our own export produces, so a round trip
// needs no explicit mapping.
func DefaultMapping() Mapping {
	return Mapping{
		"Employee Number": employee.FieldEmployeeNumber,
		"First Name":      employee.FieldFirstName,
		"Last Name":       employee.FieldLastName,
		"SSN":             employee.FieldSSN,
		"Email":           employee.FieldEmail,
		"Mobile":          employee.FieldMobile,
		"Rank":            employee.FieldRank,
		"Address":         employee.FieldAddress,
		"Birth Date":      employee.FieldBirthDate,
		"Hire Date":       employee.FieldHireDate,
	}
}

func (s *service) ImportEmployees(
	ctx context.Context,
	actingRole domain.Role,
	r io.Reader,
	mapping Mapping,
) (ImportResult, error) {
	if actingRole != domain.RoleHRAdmin {
		return ImportResult{}, importererrors.ErrAdminOnly
	}
	if len(mapping) == 0 {
		mapping = DefaultMapping()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, importererrors.ErrEmptyFile
	}

	fields, err := resolveHeader(header, mapping)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Errors: []RowError{}}
	row := 1
	for {
		row++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: row, Message: "malformed row"})
			continue
		}

		req := buildRequest(record, fields)
		if _, err := s.employees.Create(ctx, actingRole, req); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	s.logger.Info("employee import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ExportEmployees writes an xlsx workbook containing only the columns the
// caller may view. Lifecycle flags are always present.
func (s *service) ExportEmployees(ctx context.Context, role domain.Role, w io.Writer) error {
	empls, err := s.employees.GetAll(ctx, role)
	if err != nil {
		return err
	}

	headers := collectHeaders(empls)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Employees"
	f.SetSheetName(f.GetSheetName(0), sheet)

	cells := append([]string{"ID"}, headers...)
	cells = append(cells, "Archived", "Terminated")
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}

	for i, e := range empls {
		rowVals := make([]any, 0, len(cells))
		rowVals = append(rowVals, e.ID)
		for _, h := range headers {
			rowVals = append(rowVals, e.Columns[h])
		}
		rowVals = append(rowVals, e.IsArchived, e.IsTerminated)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rowVals); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		s.logger.Error("employee export write failed", zap.Error(err))
		return err
	}

	s.logger.Info("employee export finished",
		zap.String("role", role.String()),
		zap.Int("rows", len(empls)),
	)
	return nil
}

// resolveHeader turns the file header into a positional field list. Unmapped
// headers become empty slots and are ignored per cell.
func resolveHeader(header []string, mapping Mapping) ([]string, error) {
	normalized := make(map[string]string, len(mapping))
	for k, v := range mapping {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	fields := make([]string, len(header))
	mapped := map[string]bool{}
	for i, h := range header {
		field, ok := normalized[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		fields[i] = field
		mapped[field] = true
	}

	if len(mapped) == 0 {
		return nil, importererrors.ErrUnmappedHeader
	}
	for _, required := range []string{
		employee.FieldFirstName,
		employee.FieldLastName,
		employee.FieldSSN,
		employee.FieldHireDate,
	} {
		if !mapped[required] {
			return nil, importererrors.ErrMissingRequired
		}
	}
	return fields, nil
}

func buildRequest(record []string, fields []string) employee.CreateEmployeeRequest {
	var req employee.CreateEmployeeRequest
	for i, raw := range record {
		if i >= len(fields) || fields[i] == "" {
			continue
		}
		value := strings.TrimSpace(raw)
		switch fields[i] {
		case employee.FieldEmployeeNumber:
			req.EmployeeNumber = value
		case employee.FieldFirstName:
			req.FirstName = value
		case employee.FieldLastName:
			req.LastName = value
		case employee.FieldSSN:
			req.SSN = value
		case employee.FieldEmail:
			req.Email = value
		case employee.FieldMobile:
			req.Mobile = value
		case employee.FieldRank:
			req.Rank = value
		case employee.FieldAddress:
			req.Address = value
		case employee.FieldBirthDate:
			req.BirthDate = value
		case employee.FieldHireDate:
			req.HireDate = value
		}
	}
	return req
}

// collectHeaders unions the visible column names across rows so a column some
// rows lack still gets its cell.
func collectHeaders(empls []employee.ProjectedEmployeeResponse) []string {
	seen := map[string]struct{}{}
	for _, e := range empls {
		for name := range e.Columns {
			seen[name] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for name := range seen {
		headers = append(headers, name)
	}
	sort.Strings(headers)
	return headers
}
