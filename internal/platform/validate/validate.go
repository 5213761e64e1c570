// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used by the page controllers to check form input before any
// network call is made. Every rule takes the already-localized message to report,
// so the same validator serves every language.
package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/pkg/convert"
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every form submission.
type Validator struct {
	errs apperr.FieldErrors
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, message)
	}
	return v
}

// ExactLen fails if the Unicode character count is not exactly n.
func (v *Validator) ExactLen(field, value string, n int, message string) *Validator {
	if utf8.RuneCountInString(value) != n {
		v.add(field, message)
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
//
// Display-name forms such as "Ann <a@b.com>" are rejected.
func (v *Validator) Email(field, value, message string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value {
		v.add(field, message)
	}
	return v
}

// Equal fails if value differs from other.
func (v *Validator) Equal(field, value, other, message string) *Validator {
	if value != other {
		v.add(field, message)
	}
	return v
}

// Phone fails if mobile is not a valid number for the calling code countryCode.
//
// # Format
//
// countryCode is the numeric calling code without "+" (e.g. "971"); mobile is
// the national number, optionally with a trunk prefix (e.g. "0501234567").
func (v *Validator) Phone(field, countryCode, mobile, message string) *Validator {
	code := strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	number, err := phonenumbers.Parse("+"+code+strings.TrimSpace(mobile), "")
	if err != nil || !phonenumbers.IsValidNumber(number) {
		// Trunk-prefixed national numbers need the region to be parsed.
		region := phonenumbers.GetRegionCodeForCountryCode(convert.ToInt(code))
		number, err = phonenumbers.Parse(mobile, region)
		if err != nil || !phonenumbers.IsValidNumber(number) {
			v.add(field, message)
		}
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("code", !isNumeric(code), "Digits only")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a validation [apperr.AppError] if any rules failed,
// or nil if all rules passed.
//
// Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.Validation(0, "", v.errs)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a message to the field's entry, creating it on first failure.
func (v *Validator) add(field, message string) {
	for i := range v.errs {
		if v.errs[i].Field == field {
			v.errs[i].Messages = append(v.errs[i].Messages, message)
			return
		}
	}
	v.errs = append(v.errs, apperr.FieldError{Field: field, Messages: []string{message}})
}
