package column

type PermissionDTO struct {
	View bool `json:"view"`
	Edit bool `json:"edit"`
}

type CreateColumnRequest struct {
	Name     string `json:"column_name" binding:"required"`
	Type     string `json:"column_type" binding:"required"`
	Category string `json:"category"`
}

type UpdateColumnRequest struct {
	Name     *string `json:"column_name"`
	Category *string `json:"category"`
}

type SetPermissionsRequest struct {
	RolePermissions map[string]PermissionDTO `json:"role_permissions" binding:"required"`
}

type UnhideColumnRequest struct {
	RolePermissions map[string]PermissionDTO `json:"role_permissions" binding:"required"`
}

type ColumnResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"column_name"`
	Type            string                   `json:"column_type"`
	Category        string                   `json:"category"`
	IsMasterdata    bool                     `json:"is_masterdata"`
	MasterField     string                   `json:"master_field,omitempty"`
	RolePermissions map[string]PermissionDTO `json:"role_permissions"`
}

type DeleteColumnResponse struct {
	AffectedRecords int64 `json:"affected_records"`
}
