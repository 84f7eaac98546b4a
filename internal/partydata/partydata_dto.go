package partydata

type PatchPartyDataRequest struct {
	Updates map[string]any `json:"updates" binding:"required"`
}

type DeleteKeysRequest struct {
	ColumnNames []string `json:"column_names" binding:"required"`
}

type PartyDataResponse struct {
	EmployeeID string         `json:"employee_id"`
	Data       map[string]any `json:"data"`
}
