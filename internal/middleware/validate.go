package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"task-assignment/backend/internal/apperrors"
	"task-assignment/backend/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	validatedBodyKey   = "validated_body"
	validatedQueryKey  = "validated_query"
	validatedParamsKey = "validated_params"
)

const maxBodyBytesKey = "max_body_bytes"

const (
	MsgInvalidJSON  = "Request body must be a JSON object"
	MsgBodyTooLarge = "Request body too large"
)

// DefaultMaxBodyBytes applies when no BodyLimit middleware ran.
const DefaultMaxBodyBytes int64 = 1 << 20

// BodyLimit caps how many body bytes ValidateBody reads. Larger bodies are
// answered with 413.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(maxBodyBytesKey, n)
		c.Next()
	}
}

// ValidateBody parses the JSON body into a document and checks it against
// schema. Numbers are kept as json.Number so the schema decides how to
// coerce them.
func ValidateBody(schema validation.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := decodeBody(c)
		if err != nil {
			abortWith(c, err)
			return
		}

		payload, err := validation.Validate(schema, raw, "")
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(validatedBodyKey, payload)
		c.Next()
	}
}

// ValidateQuery checks the query string. A non-empty override replaces the
// specific violation message.
func ValidateQuery(schema validation.Schema, override string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := validation.Validate(schema, validation.FromValues(c.Request.URL.Query()), override)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(validatedQueryKey, payload)
		c.Next()
	}
}

func ValidateParams(schema validation.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := make(map[string]interface{}, len(c.Params))
		for _, p := range c.Params {
			raw[p.Key] = p.Value
		}

		payload, err := validation.Validate(schema, raw, "")
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(validatedParamsKey, payload)
		c.Next()
	}
}

func ValidatedBody(c *gin.Context) validation.Payload {
	return payloadFrom(c, validatedBodyKey)
}

func ValidatedQuery(c *gin.Context) validation.Payload {
	return payloadFrom(c, validatedQueryKey)
}

func ValidatedParams(c *gin.Context) validation.Payload {
	return payloadFrom(c, validatedParamsKey)
}

func payloadFrom(c *gin.Context, key string) validation.Payload {
	if v, ok := c.Get(key); ok {
		if payload, ok := v.(validation.Payload); ok {
			return payload
		}
	}
	return validation.Payload{}
}

func decodeBody(c *gin.Context) (map[string]interface{}, error) {
	if c.Request.Body == nil {
		return map[string]interface{}{}, nil
	}

	limit := DefaultMaxBodyBytes
	if n, ok := c.Get(maxBodyBytesKey); ok {
		if v, ok := n.(int64); ok && v > 0 {
			limit = v
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.TooLarge(MsgBodyTooLarge, err)
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, apperrors.Validation(MsgInvalidJSON)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.Validation(MsgInvalidJSON)
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, apperrors.Validation(MsgInvalidJSON)
	}
	return doc, nil
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
