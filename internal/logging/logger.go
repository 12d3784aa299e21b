// Package logging wraps logrus behind a small interface so services and
// handlers can be tested with MockLogger.
package logging

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

type Field struct {
	Key   string
	Value interface{}
}

// Field names shared across the service.
const (
	FieldUserID    = "user_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQueryKind = "query_kind"
	FieldVerdict   = "verdict"
	FieldRenderer  = "renderer"
	FieldReason    = "reason"
	FieldDriver    = "driver"
	FieldJob       = "job"
	FieldReportKey = "report_key"
	FieldRecipient = "recipient"
)
