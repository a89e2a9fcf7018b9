package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"task-assignment/backend/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func String(message string) Rule {
	return func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok {
			return nil, apperrors.Validation(message)
		}
		return s, nil
	}
}

func NonEmpty(message string) Rule {
	return tagRule("min=1", message)
}

func OneOf(message string, allowed ...string) Rule {
	return tagRule("oneof="+strings.Join(allowed, " "), message)
}

func Email(message string) Rule {
	return tagRule("email", message)
}

// DateTime accepts RFC 3339 timestamps in UTC ("Z" suffix), fractional
// seconds included. Numeric offsets such as "+02:00" are rejected.
func DateTime(message string) Rule {
	return func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok || !strings.HasSuffix(s, "Z") || validate.Var(s, "datetime="+time.RFC3339) != nil {
			return nil, apperrors.Validation(message)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, apperrors.Validation(message)
		}
		return t.UTC(), nil
	}
}

// Number coerces a JSON number or a numeric string to float64. Blank strings
// coerce to zero.
func Number(message string) Rule {
	return func(value interface{}) (interface{}, error) {
		n, ok := toFloat(value)
		if !ok || math.IsNaN(n) {
			return nil, apperrors.Validation(message)
		}
		return n, nil
	}
}

// WholeNumber refines a coerced number into a uint. With positive set, zero
// is rejected too.
func WholeNumber(message string, positive bool) Rule {
	tag := "gte=0"
	if positive {
		tag = "gt=0"
	}
	return func(value interface{}) (interface{}, error) {
		n, ok := value.(float64)
		if !ok || math.IsInf(n, 0) || n != math.Trunc(n) || n > math.MaxUint32 {
			return nil, apperrors.Validation(message)
		}
		if validate.Var(n, tag) != nil {
			return nil, apperrors.Validation(message)
		}
		return uint(n), nil
	}
}

func tagRule(tag, message string) Rule {
	return func(value interface{}) (interface{}, error) {
		s, ok := value.(string)
		if !ok || validate.Var(s, tag) != nil {
			return nil, apperrors.Validation(message)
		}
		return s, nil
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	default:
		return 0, false
	}
}
