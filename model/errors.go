/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import "fmt"

// ErrorKind classifies why a ledger operation was refused.
type ErrorKind string

const (
	KindMissingField    ErrorKind = "MISSING_FIELD"
	KindAmbiguousAmount ErrorKind = "AMBIGUOUS_AMOUNT"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindInvalidDate     ErrorKind = "INVALID_DATE"
	KindInvalidAmount   ErrorKind = "INVALID_AMOUNT"
	KindDuplicateID     ErrorKind = "DUPLICATE_ID"
)

// ValidationError is returned by ledger and payslip operations when the input breaks a rule.
// The operation that returned it has not changed any state.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Sentinels for errors.Is. A sentinel matches any ValidationError of the same kind.
var (
	ErrMissingField    = &ValidationError{Kind: KindMissingField}
	ErrAmbiguousAmount = &ValidationError{Kind: KindAmbiguousAmount}
	ErrNotFound        = &ValidationError{Kind: KindNotFound}
	ErrInvalidDate     = &ValidationError{Kind: KindInvalidDate}
	ErrInvalidAmount   = &ValidationError{Kind: KindInvalidAmount}
	ErrDuplicateID     = &ValidationError{Kind: KindDuplicateID}
)

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

// Is matches on kind, and on field when the target names one.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

func newValidationError(kind ErrorKind, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingField reports a required field that was absent.
func MissingField(field string) *ValidationError {
	return newValidationError(KindMissingField, field, "%s is required", field)
}

// NotFound reports a transaction id that is not part of the ledger.
func NotFound(id string) *ValidationError {
	return newValidationError(KindNotFound, "transaction_id", "transaction %s not found", id)
}

// OutOfRange reports a value or running total that no longer fits in an Amount.
func OutOfRange(field string) *ValidationError {
	return newValidationError(KindInvalidAmount, field, "%s is out of range", field)
}
