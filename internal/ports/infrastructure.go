package ports

import "time"

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Fetch outcomes recorded by MetricsCollector
const (
	FetchOutcomeSuccess = "success"
	FetchOutcomeFailure = "failure"
)

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordFetch(provider, outcome string, duration time.Duration)
	RecordFallback(requested string)
	RecordSettingsSave(storage string)
}
