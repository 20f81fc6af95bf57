// Package apperr defines the error kinds the service distinguishes so the
// HTTP layer can pick a status code without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindExtraction          Kind = "extraction"
	KindNoContent           Kind = "no_content"
	KindSummarizationFailed Kind = "summarization_failed"
	KindInternal            Kind = "internal"
)

// Error carries a client-facing message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports bad client input such as empty text or a wrong file type.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Extraction reports a document whose text could not be read.
func Extraction(msg string, err error) *Error {
	return &Error{Kind: KindExtraction, Message: msg, Err: err}
}

// NoContent reports input that produced nothing worth summarizing.
func NoContent(msg string) *Error {
	return &Error{Kind: KindNoContent, Message: msg}
}

// SummarizationFailed reports that no chunk could be summarized.
func SummarizationFailed(msg string, err error) *Error {
	return &Error{Kind: KindSummarizationFailed, Message: msg, Err: err}
}

// Internal wraps an unexpected fault.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err. Errors outside the
// taxonomy get fallback.
func MessageOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation, KindExtraction, KindNoContent:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
