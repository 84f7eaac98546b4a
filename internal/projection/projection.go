// Package projection narrows employee records to the fields a role is
// allowed to see or write. Every read and write path for employee data goes
// through here; handlers never assemble field sets themselves.
package projection

import (
	"github.com/rthunborg/Masterdata-sub001/internal/column"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	projectionerrors "github.com/rthunborg/Masterdata-sub001/internal/projection/errors"
)

// ForRead builds the field set visible to a role. master holds the
// employee's masterdata attributes keyed by master field name; doc holds
// the caller's party document. Columns without view permission are omitted
// entirely, not blanked: absence is the contract, so a value (even null)
// never leaks for a hidden column. A role with nothing visible gets an
// empty map, which is a degraded-but-valid configuration state.
func ForRead(
	master map[string]any,
	cols []column.Column,
	doc map[string]any,
	role domain.Role,
) map[string]any {
	out := map[string]any{}
	for _, col := range cols {
		if !col.CanView(role) {
			continue
		}
		if col.IsMasterdata {
			v, ok := master[col.MasterField]
			if !ok {
				v = nil
			}
			out[col.Name] = v
			continue
		}
		v, ok := doc[col.Name]
		if !ok {
			v = nil
		}
		out[col.Name] = v
	}
	return out
}

// AuthorizeWrite gates every persistence attempt, masterdata and custom
// alike. HR admin's masterdata bypass is resolved structurally inside
// Column.CanEdit; for custom columns HR admin is subject to the matrix like
// everyone else.
func AuthorizeWrite(col column.Column, role domain.Role) error {
	if !col.CanEdit(role) {
		return projectionerrors.ErrWriteForbidden
	}
	return nil
}
