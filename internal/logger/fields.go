package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the data provider name.
	FieldProvider = "provider"
	// FieldOperation is the structured log field key for the provider operation.
	FieldOperation = "operation"
	// FieldTool is the structured log field key for the invoked tool.
	FieldTool = "tool"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger, defaulting to
// a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the provider and operation fields, skipping empty values.
func CommonFields(provider, operation string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldOperation, Value: operation},
	)
}

// WithCommonFields attaches the common provider fields to the logger.
func WithCommonFields(logger *zap.Logger, provider, operation string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, operation)...)
}
