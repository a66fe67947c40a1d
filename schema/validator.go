package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Validate checks record against every descriptor in schema order. A
// required field that is absent or empty reports "<label> is required" and
// skips its pattern; a present value that does not match the field's
// pattern reports "<label> invalid format". An empty result means the
// record is accepted.
func (s *FormSchema) Validate(record map[string]any) []FieldError {
	var errs []FieldError
	for i, f := range s.fields {
		key := f.Key()
		val, ok := record[key]

		if f.Required && (!ok || IsBlank(val)) {
			errs = append(errs, FieldError{Field: key, Message: f.ErrorLabel() + " is required"})
			continue
		}

		re := s.compiled[i]
		if re == nil || !IsPresent(val) {
			continue
		}
		if !re.MatchString(Stringify(val)) {
			errs = append(errs, FieldError{Field: key, Message: f.ErrorLabel() + " invalid format"})
		}
	}
	return errs
}

// IsBlank reports whether v counts as missing for a required field.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// IsPresent reports whether v carries a value worth pattern-checking.
// Unchecked checkboxes (false) are not present.
func IsPresent(v any) bool {
	if IsBlank(v) {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Stringify renders a decoded JSON value the way it was typed by the user.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
