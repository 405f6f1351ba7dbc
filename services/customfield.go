package services

import (
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"

	"cloudaccounts/dto"
)

// ProcessCustomData coerces a batch of typed custom fields into storable
// values. A malformed field produces an in-band "[INVALID] ..." marker
// string instead of failing the batch: the whole map goes into a single
// merge write and one bad field must not abort its valid siblings.
func ProcessCustomData(fields []dto.CustomField) map[string]interface{} {
	result := make(map[string]interface{})

	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		result[field.Key] = CoerceCustomField(field.Value, field.Type)
	}

	return result
}

// CoerceCustomField converts a raw JSON value according to its declared
// type tag (string|number|boolean|timestamp|null|delete).
func CoerceCustomField(value interface{}, fieldType string) interface{} {
	switch fieldType {
	case "string":
		if value == nil {
			return "null"
		}
		return fmt.Sprintf("%v", value)

	case "number":
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		// booleans and null are numeric-coercible in some runtimes; they
		// are rejected here on purpose
		return fmt.Sprintf("[INVALID] %v is not a number", value)

	case "boolean":
		return Truthy(value)

	case "timestamp":
		if s, ok := value.(string); ok && s != "" {
			if t, parsed := ParseDate(s); parsed {
				return t
			}
		}
		return fmt.Sprintf("[INVALID] %v is not a timestamp", value)

	case "null", "":
		return nil

	case "delete":
		return firestore.Delete

	default:
		return fmt.Sprintf("[INVALID] Type %v is not supported for value %v", fieldType, value)
	}
}
