package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
)

type Employee struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber    string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employees_number"`
	FirstName         string    `gorm:"type:varchar(100);not null"`
	LastName          string    `gorm:"type:varchar(100);not null"`
	SSN               string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employees_ssn"`
	Email             string    `gorm:"type:varchar(255)"`
	Mobile            string    `gorm:"type:varchar(50)"`
	Rank              string    `gorm:"type:varchar(100)"`
	Address           string    `gorm:"type:varchar(255)"`
	BirthDate         *time.Time
	HireDate          time.Time
	IsArchived        bool `gorm:"not null;default:false"`
	IsTerminated      bool `gorm:"not null;default:false"`
	TerminationDate   *time.Time
	TerminationReason string `gorm:"type:varchar(255)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// Master field keys: the stable identifiers masterdata columns use to point
// at an employee attribute. Column names are display labels and can be
// renamed; these keys cannot.
const (
	FieldEmployeeNumber    = "employee_number"
	FieldFirstName         = "first_name"
	FieldLastName          = "last_name"
	FieldSSN               = "ssn"
	FieldEmail             = "email"
	FieldMobile            = "mobile"
	FieldRank              = "rank"
	FieldAddress           = "address"
	FieldBirthDate         = "birth_date"
	FieldHireDate          = "hire_date"
	FieldIsArchived        = "is_archived"
	FieldIsTerminated      = "is_terminated"
	FieldTerminationDate   = "termination_date"
	FieldTerminationReason = "termination_reason"
)

const dateLayout = "2006-01-02"

// MasterdataMap flattens the entity into the attribute map the projection
// reads masterdata column values from.
func (e Employee) MasterdataMap() map[string]any {
	var birthDate, terminationDate any
	if e.BirthDate != nil {
		birthDate = e.BirthDate.Format(dateLayout)
	}
	if e.TerminationDate != nil {
		terminationDate = e.TerminationDate.Format(dateLayout)
	}
	return map[string]any{
		FieldEmployeeNumber:    e.EmployeeNumber,
		FieldFirstName:         e.FirstName,
		FieldLastName:          e.LastName,
		FieldSSN:               e.SSN,
		FieldEmail:             e.Email,
		FieldMobile:            e.Mobile,
		FieldRank:              e.Rank,
		FieldAddress:           e.Address,
		FieldBirthDate:         birthDate,
		FieldHireDate:          e.HireDate.Format(dateLayout),
		FieldIsArchived:        e.IsArchived,
		FieldIsTerminated:      e.IsTerminated,
		FieldTerminationDate:   terminationDate,
		FieldTerminationReason: e.TerminationReason,
	}
}

// Snapshot reduces the entity to the fields change classification needs.
func (e Employee) Snapshot() events.EmployeeSnapshot {
	return events.EmployeeSnapshot{
		ID:           e.ID.String(),
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Mobile:       e.Mobile,
		Rank:         e.Rank,
		SSN:          e.SSN,
		IsArchived:   e.IsArchived,
		IsTerminated: e.IsTerminated,
	}
}
