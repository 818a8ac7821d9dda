// Package web defines common components for a web application.
package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Envelope status codes.
//
// Successful responses carry StatusOK; categorized failures carry one of the numeric
// codes, uncategorized failures carry StatusFailed.
const (
	StatusOK               = 0
	StatusBadParameter     = 102
	StatusWrongCredentials = 103
	StatusInvalidToken     = 108
	StatusFailed           = "failed"
)

// Response holds the common response type for all APIs.
type Response struct {
	Status  any    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK wraps data into a successful response.
func OK(message string, data any) Response {
	return Response{Status: StatusOK, Message: message, Data: data}
}

// Fail returns a categorized failure response.
func Fail(status int, message string) Response {
	return Response{Status: status, Message: message}
}

// Error wraps a given err into an uncategorized failure response.
func Error(err error) Response {
	return Response{Status: StatusFailed, Message: err.Error()}
}

// AmountMessage is returned for malformed money amounts.
const AmountMessage = "Paramter amount hanya boleh angka dan tidak boleh lebih kecil dari 0"

// Messages for the validated request fields whose wording differs from the default.
var fieldMessages = map[string]string{
	"top_up_amount": AmountMessage,
	"password":      "Password minimal 8 karakter",
}

// GetErrorMsg returns a client friendly message for a failed field validation.
//
// Field names are expected to be json names, see RegisterJSONTagNames.
func GetErrorMsg(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Parameter %s harus di isi", fe.Field())
	}

	return fmt.Sprintf("Paramter %s tidak sesuai format", fe.Field())
}

// ValidationError converts validator errors into a bad parameter response.
//
// Only the first failed field is reported.
func ValidationError(ve validator.ValidationErrors) Response {
	if len(ve) == 0 {
		return Fail(StatusBadParameter, "Parameter tidak valid")
	}

	return Fail(StatusBadParameter, GetErrorMsg(ve[0]))
}

// BindError converts a request binding error into a bad parameter response.
//
// Errors that are not validation errors, like malformed json, get fallback.
func BindError(err error, fallback string) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ValidationError(ve)
	}

	return Fail(StatusBadParameter, fallback)
}
