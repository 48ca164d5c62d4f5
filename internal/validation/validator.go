// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// CodeValidationFailed is the API error code for rejected requests.
const CodeValidationFailed = "VALIDATION_ERROR"

// entityIDPattern matches user and product identifiers.
var entityIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

// GetValidator returns the shared validator with the custom tags registered.
var GetValidator = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("entityid", func(fl validator.FieldLevel) bool { //nolint:errcheck // tag names are static
		return entityIDPattern.MatchString(fl.Field().String())
	})
	// An empty action is valid and is stored as a view.
	_ = v.RegisterValidation("interaction", func(fl validator.FieldLevel) bool { //nolint:errcheck // tag names are static
		a := fl.Field().String()
		return a == "" || recommend.Action(a).Valid()
	})
	return v
}

// FieldError is one rejected field. Field is the JSON path relative to the
// request, for example "interactions[2].user_id".
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Errors lists every rejected field of a request.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the error payload of the API response envelope. It mirrors
// api.APIError so this package does not import the api package.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the failures to a VALIDATION_ERROR payload. Details
// always carries the full list under "fields".
func (e Errors) ToAPIError() *APIError {
	if len(e) == 0 {
		return &APIError{Code: CodeValidationFailed, Message: "Validation failed"}
	}
	return &APIError{
		Code:    CodeValidationFailed,
		Message: e.Error(),
		Details: map[string]interface{}{"fields": []FieldError(e)},
	}
}

// ValidateStruct validates s and returns nil or the rejected fields.
//
// Example:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
func ValidateStruct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "request", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		path := fieldPath(fe)
		out[i] = FieldError{
			Field:   path,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(path, fe),
		}
	}
	return out
}

// fieldPath drops the Go struct name from the namespace:
// "RecordInteractionsRequest.interactions[2].user_id" -> "interactions[2].user_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String
	isList := fe.Kind() == reflect.Slice

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "entityid":
		return field + " must be 1-128 characters of letters, digits, '_', '-', '.' or ':'"
	case "interaction":
		return field + " must be one of: view, cart, save, purchase"
	case "datetime":
		return field + " must be an RFC3339 timestamp"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case isList:
			return fmt.Sprintf("%s must contain at least %s items", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case isList:
			return fmt.Sprintf("%s must contain at most %s items", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ValidateEntityID reports whether id is a well-formed user or product id.
func ValidateEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}
