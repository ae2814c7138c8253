// Package validation collects per-field violations from struct tags and
// manual checks into one map keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Violations maps a JSON field path to a short message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless the field already has a violation.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct runs the `validate` tags of s and adds one violation per failing
// field, named by its JSON path without the root type (e.g. "items[0].quantity").
func Struct(s any, v Violations) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		v.Add(ns, tagMessage(fe.Tag()))
	}
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "gt", "gte", "min":
		return "must_be_positive"
	case "email":
		return "invalid_email"
	case "oneof":
		return "invalid_value"
	case "lt", "lte", "max":
		return "too_large"
	default:
		return tag
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if val.Sign() <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.Sign() < 0 {
		v.Add(field, "must_not_be_negative")
	}
}

func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v.Add(field, "out_of_range")
	}
}

// Phone checks that value parses as a valid number for region (e.g. "IN").
// Empty values are left to Required.
func Phone(field, value, region string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p, err := libphonenumber.Parse(value, region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		v.Add(field, "invalid_phone")
	}
}
