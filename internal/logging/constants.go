package logging

// Standardized field names for structured logging.
const (
	FieldFile          = "file_path"
	FieldSource        = "source"
	FieldTransactionID = "transaction_id"
	FieldActor         = "actor"
	FieldRule          = "rule"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldDelimiter     = "delimiter"
	FieldRunID         = "run_id"
	FieldDirectCount   = "direct_findings"
	FieldContextCount  = "contextual_findings"
	FieldOutputFile    = "output_file"
	FieldFormat        = "format"
)
