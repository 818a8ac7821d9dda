package web

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterJSONTagNames makes validation errors report json field names.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})
}

// maxAmountExponent bounds the decimal exponent of an amount. Any int64 is reachable
// within it, and comparing values outside it would materialize huge integers.
const maxAmountExponent = 18

// ParseAmount parses a money amount in the smallest currency unit.
//
// The amount must be a whole, strictly positive number that fits into int64.
func ParseAmount(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	if e := d.Exponent(); e > maxAmountExponent || e < -maxAmountExponent {
		return 0, false
	}

	if !d.Equal(d.Truncate(0)) || d.LessThanOrEqual(decimal.Zero) {
		return 0, false
	}

	if !d.BigInt().IsInt64() {
		return 0, false
	}

	return d.IntPart(), true
}
