package column

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeText, TypeNumber, TypeDate, TypeBoolean:
		return Type(s), true
	}
	return "", false
}

const (
	CategoryUncategorized = "Uncategorized"
	CategoryMasterdata    = "Employee Information"
)

// Column is one field of information about an employee. Masterdata columns
// map to a fixed attribute on the employee row via MasterField; custom
// columns live in the owning party's document store under Name.
type Column struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Name            string                  `gorm:"type:varchar(100);not null"`
	NameKey         string                  `gorm:"type:varchar(100);not null;uniqueIndex:uq_columns_name_key"`
	Type            Type                    `gorm:"type:varchar(20);not null"`
	IsMasterdata    bool                    `gorm:"not null;default:false"`
	Category        string                  `gorm:"type:varchar(100)"`
	MasterField     string                  `gorm:"type:varchar(50)"`
	RolePermissions domain.PermissionMatrix `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedBy       string                  `gorm:"type:varchar(50)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Column) TableName() string { return "columns" }

// NameKeyOf normalizes a column name for case-insensitive uniqueness.
func NameKeyOf(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayCategory resolves the grouping label shown to clients. Masterdata
// always groups under the fixed employee section.
func (c Column) DisplayCategory() string {
	if c.IsMasterdata {
		return CategoryMasterdata
	}
	if strings.TrimSpace(c.Category) == "" {
		return CategoryUncategorized
	}
	return c.Category
}

// CanView resolves effective view access. HR admin's access to masterdata
// is structural and never consulted from the stored matrix; everything else
// is a plain matrix lookup.
func (c Column) CanView(role domain.Role) bool {
	if role == domain.RoleHRAdmin && c.IsMasterdata {
		return true
	}
	return c.RolePermissions.CanView(role)
}

// CanEdit resolves effective edit access, with the same structural rule for
// HR admin on masterdata. HR admin gets no implicit edit on custom columns.
func (c Column) CanEdit(role domain.Role) bool {
	if role == domain.RoleHRAdmin && c.IsMasterdata {
		return true
	}
	return c.RolePermissions.CanEdit(role)
}
