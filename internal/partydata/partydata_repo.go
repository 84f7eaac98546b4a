package partydata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

// Document is the flat key->value blob one party keeps per employee. Keys
// are custom column names; values are typed per the column's declared type.
type Document map[string]any

// errUnsupportedRole marks a role with no backing store (HR admin, or
// anything unknown). The service maps it to a Forbidden response.
var errUnsupportedRole = errors.New("role has no party data store")

// Each party role owns its own physical table. The fixed map is the point:
// "can store X only be touched by role X" is auditable right here, at the
// cost of a closed party set.
var partyTables = map[domain.Role]string{
	domain.RoleCatering:   "party_data_catering",
	domain.RoleMedical:    "party_data_medical",
	domain.RolePayroll:    "party_data_payroll",
	domain.RoleFacilities: "party_data_facilities",
}

func tableFor(role domain.Role) (string, error) {
	table, ok := partyTables[role]
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnsupportedRole, role)
	}
	return table, nil
}

//go:generate mockgen -source=partydata_repo.go -destination=mock/partydata_repo_mock.go -package=mock
type Repository interface {
	Get(ctx context.Context, role domain.Role, employeeID string) (Document, error)
	GetAll(ctx context.Context, role domain.Role) (map[string]Document, error)
	Merge(ctx context.Context, role domain.Role, employeeID string, updates Document) error
	RemoveKeys(ctx context.Context, role domain.Role, employeeID string, keys []string) error
	RemoveKeysForAll(ctx context.Context, role domain.Role, keys []string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, role domain.Role, employeeID string) (Document, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	var raw []byte
	row := r.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT doc FROM %s WHERE employee_id = ?", table), employeeID).
		Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No record yet is not an error; the document appears lazily on
			// first write.
			return Document{}, nil
		}
		return nil, err
	}

	doc := Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (r *repository) GetAll(ctx context.Context, role domain.Role) (map[string]Document, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT employee_id::text, doc FROM %s", table)).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := map[string]Document{}
	for rows.Next() {
		var employeeID string
		var raw []byte
		if err := rows.Scan(&employeeID, &raw); err != nil {
			return nil, err
		}
		doc := Document{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, err
			}
		}
		docs[employeeID] = doc
	}
	return docs, rows.Err()
}

// Merge upserts the employee's document and shallow-merges updates into it,
// last write wins per key. Keys absent from updates are never touched.
func (r *repository) Merge(ctx context.Context, role domain.Role, employeeID string, updates Document) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updates)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (employee_id, doc, created_at, updated_at)
		VALUES (?, ?::jsonb, now(), now())
		ON CONFLICT (employee_id) DO UPDATE
		SET doc = %s.doc || EXCLUDED.doc, updated_at = now()
	`, table, table)

	return r.db.WithContext(ctx).Exec(query, employeeID, string(payload)).Error
}

func (r *repository) RemoveKeys(ctx context.Context, role domain.Role, employeeID string, keys []string) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	// Removing keys from an absent document is a no-op, not an error.
	query := fmt.Sprintf(`
		UPDATE %s
		SET doc = doc - ?::text[], updated_at = now()
		WHERE employee_id = ?
	`, table)

	return r.db.WithContext(ctx).Exec(query, keys, employeeID).Error
}

// RemoveKeysForAll strips the named keys from every employee's document in
// the role's store and reports how many rows actually changed. Used by the
// registry's cascading column delete.
func (r *repository) RemoveKeysForAll(ctx context.Context, role domain.Role, keys []string) (int64, error) {
	table, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	// jsonb_exists_any instead of the ?| operator: gorm treats ? as a
	// placeholder.
	query := fmt.Sprintf(`
		UPDATE %s
		SET doc = doc - ?::text[], updated_at = now()
		WHERE jsonb_exists_any(doc, ?::text[])
	`, table)

	res := r.db.WithContext(ctx).Exec(query, keys, keys)
	return res.RowsAffected, res.Error
}
