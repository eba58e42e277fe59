package appconfig

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation failure so callers can pick an HTTP
// status mapping without parsing the message.
type ErrorKind int

const (
	// SchemaViolation: a field has the wrong type or fails a structural
	// constraint (e.g. stop is not a list).
	SchemaViolation ErrorKind = iota
	// ReferentialViolation: a referenced entity (provider, model, dataset,
	// planning strategy) does not exist or is not visible to the tenant.
	ReferentialViolation
	// CrossFieldViolation: fields are individually valid but mutually
	// inconsistent (undeclared placeholder, missing dataset_query_variable).
	CrossFieldViolation
)

func (k ErrorKind) String() string {
	switch k {
	case SchemaViolation:
		return "schema"
	case ReferentialViolation:
		return "referential"
	case CrossFieldViolation:
		return "cross_field"
	default:
		return "unknown"
	}
}

// ValidationError is returned by Validator.Validate on the first violated
// constraint. Fields holds the offending field path(s); cross-field errors
// carry every involved path.
type ValidationError struct {
	Kind   ErrorKind
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

func schemaErr(field, reason string) *ValidationError {
	return &ValidationError{Kind: SchemaViolation, Fields: []string{field}, Reason: reason}
}

func refErr(field, reason string) *ValidationError {
	return &ValidationError{Kind: ReferentialViolation, Fields: []string{field}, Reason: reason}
}

func crossErr(reason string, fields ...string) *ValidationError {
	return &ValidationError{Kind: CrossFieldViolation, Fields: fields, Reason: reason}
}
