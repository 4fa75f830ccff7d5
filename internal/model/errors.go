package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidInput    = errors.New("invalid input")
)

// DataSourceError reports that the backing store rejected or failed an
// operation. The store's own message is kept in Err.
type DataSourceError struct {
	Op    string
	Table string
	Err   error
}

func (e *DataSourceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("data source %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("data source %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func NewDataSourceError(op string, table string, err error) error {
	if err == nil {
		return nil
	}

	return &DataSourceError{Op: op, Table: table, Err: err}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation on create or update.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) Add(field string, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

type NotFoundError struct {
	Table string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Table, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
