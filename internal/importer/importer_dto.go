package importer

// Mapping translates file headers to employee field names. Keys are the raw
// header cells, values the field constants from the employee package.
type Mapping map[string]string

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports partial success. A failed row is counted and
// described, it never aborts the remaining rows.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

type ImportRequest struct {
	Mapping Mapping `json:"mapping"`
}
