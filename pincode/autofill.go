package pincode

import (
	"context"
	"log"
	"regexp"
	"unicode/utf8"

	"github.com/raushankrgupta/udyam-registration/schema"
)

// CodeLength is the number of characters that triggers a lookup.
const CodeLength = 6

var (
	pinField   = regexp.MustCompile(`(?i)pin|pincode|postal`)
	stateField = regexp.MustCompile(`(?i)state`)
	cityField  = regexp.MustCompile(`(?i)city|district|taluka`)
)

// AutoFiller populates state and city fields from a postal code field.
// Field names are detected once from the schema; missing ones are skipped.
type AutoFiller struct {
	lookup    Lookuper
	pinField  string
	stateName string
	cityName  string
}

func NewAutoFiller(s *schema.FormSchema, lookup Lookuper) *AutoFiller {
	fields := s.Fields()
	return &AutoFiller{
		lookup:    lookup,
		pinField:  firstVisible(fields, pinField),
		stateName: firstVisible(fields, stateField),
		cityName:  firstVisible(fields, cityField),
	}
}

// firstVisible skips hidden inputs such as ASP.NET's __VIEWSTATE.
func firstVisible(fields []schema.FieldDescriptor, re *regexp.Regexp) string {
	for _, f := range fields {
		if f.Kind() != "hidden" && re.MatchString(f.Key()) {
			return f.Key()
		}
	}
	return ""
}

// PinField is the detected postal code field, or "" when the schema has none.
func (a *AutoFiller) PinField() string { return a.pinField }

// AutoFill looks the postal code in values up and writes state and city
// into values. It returns the fields it set. Lookups run only for a value
// of exactly six characters; failures are logged and otherwise ignored.
func (a *AutoFiller) AutoFill(ctx context.Context, values map[string]any) map[string]string {
	if a.pinField == "" || (a.stateName == "" && a.cityName == "") {
		return nil
	}
	code := schema.Stringify(values[a.pinField])
	if utf8.RuneCountInString(code) != CodeLength {
		return nil
	}

	place, err := a.lookup.Lookup(ctx, code)
	if err != nil {
		log.Printf("[pincode] lookup %s ignored: %v", code, err)
		return nil
	}

	filled := map[string]string{}
	if a.stateName != "" {
		values[a.stateName] = place.State
		filled[a.stateName] = place.State
	}
	if a.cityName != "" {
		values[a.cityName] = place.District
		filled[a.cityName] = place.District
	}
	return filled
}
