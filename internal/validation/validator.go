// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package validation checks request payloads with go-playground/validator
// and shapes rule failures for the API error envelope. It also owns the
// imdbid rule, since IMDb title identifiers are the one format the whole
// system keys on.
//
//	type enrichRequest struct {
//	    Batch int `json:"batch" validate:"gte=0"`
//	}
//
//	if verr := validation.Check(&req); verr != nil {
//	    respondError(w, r, http.StatusBadRequest, CodeValidationError,
//	        verr.Error(), verr.Details())
//	    return
//	}
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// ValidIMDbID reports whether s looks like an IMDb title identifier,
// "tt" followed by digits, the way the ratings export writes them.
func ValidIMDbID(s string) bool {
	return imdbIDPattern.MatchString(s)
}

// instance hands out the process-wide validator, built on first use.
// validator.Validate caches struct metadata, so sharing one instance is
// the supported pattern.
var instance = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their json names so failures name the key
	// the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// RegisterValidation only errors on an empty tag or nil func.
	_ = v.RegisterValidation("imdbid", func(fl validator.FieldLevel) bool {
		return ValidIMDbID(fl.Field().String())
	})

	return v
})

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Rule    string
	Param   string
	Message string
}

// Errors collects every failure from one Check call. A nil Errors means
// the value passed.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Details shapes the failures for the details field of the error
// envelope: a flat object for a single failure, a fields list otherwise.
func (e Errors) Details() map[string]any {
	if len(e) == 1 {
		return map[string]any{"field": e[0].Field, "rule": e[0].Rule}
	}

	fields := make([]map[string]any, len(e))
	for i, fe := range e {
		fields[i] = map[string]any{
			"field":   fe.Field,
			"rule":    fe.Rule,
			"message": fe.Message,
		}
	}
	return map[string]any{"fields": fields}
}

// Check validates s against its validate tags and returns nil when it
// passes. Handing it something that is not a struct reports a single
// request-level failure rather than panicking.
func Check(s any) Errors {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "request", Rule: "struct", Message: err.Error()}}
	}

	out := make(Errors, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return out
}

// message renders one failure the way the API reports it. Bounds rules
// phrase strings in characters and numbers plainly.
func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "imdbid":
		return field + " must be an IMDb identifier (tt followed by digits)"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "filepath":
		return field + " must be a valid file path"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
