package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldID        = "id"
	FieldSystolic  = "systolic"
	FieldDiastolic = "diastolic"
	FieldPulse     = "pulse"
	FieldPeriod    = "time_period"
	FieldRows      = "rows"
	FieldPath      = "path"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentRecorder = "recorder"
	ComponentReporter = "reporter"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpRecord = "record"
	OpReport = "report"
	OpExport = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMeasurement adds measurement fields
func (f LogFields) WithMeasurement(id int64, systolic, diastolic, pulse int, period string) LogFields {
	f[FieldID] = id
	f[FieldSystolic] = systolic
	f[FieldDiastolic] = diastolic
	f[FieldPulse] = pulse
	f[FieldPeriod] = period
	return f
}

// WithPeriod adds the queried year and month
func (f LogFields) WithPeriod(year, month int) LogFields {
	f[FieldYear] = year
	f[FieldMonth] = month
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
