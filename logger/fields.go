package logger

// Standard field names for consistent structured logging across promptloom.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Templates and macros
	FieldTemplate       = "template"
	FieldTemplateLength = "template_length"
	FieldMacroID        = "macro_id"
	FieldMacroCount     = "macro_count"
	FieldTokenCount     = "token_count"
	FieldUnresolved     = "unresolved"

	// Stack operations
	FieldStackSize = "stack_size"
	FieldFromIndex = "from_index"
	FieldToIndex   = "to_index"

	// Configs
	FieldConfigID   = "config_id"
	FieldConfigName = "config_name"
	FieldVersion    = "version"
	FieldMode       = "mode"

	// Errors
	FieldError = "error"

	// Timing
	FieldDurationMS = "duration_ms"

	// Files and network
	FieldFile    = "file"
	FieldPath    = "path"
	FieldAddress = "address"
)
