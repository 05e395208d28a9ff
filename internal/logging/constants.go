package logging

// Standardized field names so log output stays filterable.
const (
	FieldFile       = "file_path"
	FieldFileName   = "file_name"
	FieldSide       = "side"
	FieldRow        = "row"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRemoteAddr = "remote_addr"
)
