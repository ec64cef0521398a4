package normalize

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// No is the bureau's word for a negative answer.
const No = "нет"

// sentinels are values the bureau uses for "no data"
var sentinels = map[string]bool{
	"":     true,
	"NA":   true,
	"null": true,
}

// IsPresent reports whether a value carries data. Empty strings, the "NA"
// and "null" sentinels, nil and empty sequences are absent; everything else,
// including "0" and 0, is present.
func IsPresent(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return !sentinels[v]
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}

// ToNumber coerces a value to float64. Callers gate it with IsPresent.
func ToNumber(value any) (float64, error) {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", value)
	}
	return f, nil
}

// ToInt coerces a value to a number and truncates it toward zero
func ToInt(value any) (float64, error) {
	f, err := ToNumber(value)
	if err != nil {
		return 0, err
	}
	return Truncate(f), nil
}

// Truncate drops the fractional part, rounding toward zero
func Truncate(f float64) float64 {
	return math.Trunc(f)
}

// EncodeYesNo maps "нет" (any case) to 0 and anything else to 1
func EncodeYesNo(value string) int {
	if strings.ToLower(value) == No {
		return 0
	}
	return 1
}

// EncodeMagnitudeOrAbsent maps "нет" to "0", otherwise returns the first
// space-delimited token, e.g. "30 днів" -> "30".
func EncodeMagnitudeOrAbsent(value string) string {
	if strings.ToLower(value) == No {
		return "0"
	}
	token, _, _ := strings.Cut(value, " ")
	return token
}
