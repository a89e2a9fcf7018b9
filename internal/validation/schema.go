// Package validation holds the declarative request schemas. A schema walks
// its fields in declaration order and stops at the first violation, so the
// message a client sees is stable for a given payload.
package validation

import (
	"net/url"
	"time"

	"task-assignment/backend/internal/apperrors"
)

// Payload is a validated, normalized request document. Keys that the schema
// does not declare are dropped.
type Payload map[string]interface{}

// Rule checks one value and may return a coerced replacement.
type Rule func(value interface{}) (interface{}, error)

type Field struct {
	Name     string
	Required bool
	// Message is reported when a required field is absent.
	Message string
	Rules   []Rule
}

// Refinement is a whole-payload check. Refinements run only after every
// field passed.
type Refinement struct {
	Message string
	Check   func(Payload) bool
}

type Schema struct {
	Name        string
	Fields      []Field
	Refinements []Refinement
}

// Refine returns a copy of s with an extra payload-level check.
func (s Schema) Refine(message string, check func(Payload) bool) Schema {
	out := s.clone()
	out.Refinements = append(out.Refinements, Refinement{Message: message, Check: check})
	return out
}

// Partial returns a copy of s where no field is required and no refinement
// applies.
func (s Schema) Partial() Schema {
	out := s.clone()
	for i := range out.Fields {
		out.Fields[i].Required = false
	}
	out.Refinements = nil
	return out
}

func (s Schema) clone() Schema {
	out := Schema{Name: s.Name}
	out.Fields = append([]Field(nil), s.Fields...)
	out.Refinements = append([]Refinement(nil), s.Refinements...)
	return out
}

// Parse validates raw against the schema and returns the normalized payload
// or a validation error carrying the first violation.
func (s Schema) Parse(raw map[string]interface{}) (Payload, error) {
	out := make(Payload, len(s.Fields))

	for _, field := range s.Fields {
		value, present := raw[field.Name]
		if !present {
			if field.Required {
				return nil, apperrors.Validation(field.Message)
			}
			continue
		}

		for _, rule := range field.Rules {
			coerced, err := rule(value)
			if err != nil {
				return nil, err
			}
			value = coerced
		}
		out[field.Name] = value
	}

	for _, refinement := range s.Refinements {
		if !refinement.Check(out) {
			return nil, apperrors.Validation(refinement.Message)
		}
	}

	return out, nil
}

// Validate parses raw with schema. A non-empty override replaces whatever
// violation was found.
func Validate(schema Schema, raw map[string]interface{}, override string) (Payload, error) {
	payload, err := schema.Parse(raw)
	if err != nil {
		if override != "" {
			return nil, apperrors.Validation(override)
		}
		return nil, err
	}
	return payload, nil
}

// FromValues flattens query values. A key given more than once keeps all of
// its values so string rules reject it.
func FromValues(values url.Values) map[string]interface{} {
	raw := make(map[string]interface{}, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			raw[key] = vals[0]
		default:
			raw[key] = append([]string(nil), vals...)
		}
	}
	return raw
}

func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

func (p Payload) Uint(key string) (uint, bool) {
	n, ok := p[key].(uint)
	return n, ok
}

func (p Payload) Time(key string) (time.Time, bool) {
	t, ok := p[key].(time.Time)
	return t, ok
}
