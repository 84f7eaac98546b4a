package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	SSN            string `json:"ssn" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Mobile         string `json:"mobile"`
	Rank           string `json:"rank"`
	Address        string `json:"address"`
	BirthDate      string `json:"birth_date"`
	HireDate       string `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	SSN       string `json:"ssn" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Mobile    string `json:"mobile"`
	Rank      string `json:"rank"`
	Address   string `json:"address"`
	BirthDate string `json:"birth_date"`
	HireDate  string `json:"hire_date" binding:"required"`
}

type UpdateFieldsRequest struct {
	Updates map[string]any `json:"updates" binding:"required"`
}

type ArchiveEmployeeRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

type TerminateEmployeeRequest struct {
	TerminationDate   string `json:"termination_date"`
	TerminationReason string `json:"termination_reason" binding:"required"`
}

// EmployeeResponse is the full masterdata view. Only HR admin paths return
// it; every other role gets a ProjectedEmployeeResponse.
type EmployeeResponse struct {
	ID                string `json:"id"`
	EmployeeNumber    string `json:"employee_number"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	SSN               string `json:"ssn"`
	Email             string `json:"email"`
	Mobile            string `json:"mobile"`
	Rank              string `json:"rank"`
	Address           string `json:"address"`
	BirthDate         string `json:"birth_date,omitempty"`
	HireDate          string `json:"hire_date"`
	IsArchived        bool   `json:"is_archived"`
	IsTerminated      bool   `json:"is_terminated"`
	TerminationDate   string `json:"termination_date,omitempty"`
	TerminationReason string `json:"termination_reason,omitempty"`
}

// ProjectedEmployeeResponse carries only the columns the caller may view.
type ProjectedEmployeeResponse struct {
	ID           string         `json:"id"`
	IsArchived   bool           `json:"is_archived"`
	IsTerminated bool           `json:"is_terminated"`
	Columns      map[string]any `json:"columns"`
}
