package wizard

import "strings"

// Alias maps a scraped field name to the short name the API expects.
type Alias struct {
	Contains string
	Name     string
}

// Aliases are checked in order and the first match wins, so longer
// fragments sharing a prefix come first.
var Aliases = []Alias{
	{Contains: "txtadharno", Name: "aadhaar"},
	{Contains: "txtownername", Name: "name"},
	{Contains: "chkDecarationA", Name: "consent"},
	{Contains: "ddlTypeofOrg", Name: "orgType"},
	{Contains: "txtPanName", Name: "panName"},
	{Contains: "txtdob", Name: "panDob"},
	{Contains: "chkDecarationP", Name: "panConsent"},
	{Contains: "txtPan", Name: "pan"},
}

// CanonicalName returns the API name for a form field, or the name itself.
func CanonicalName(name string) string {
	for _, a := range Aliases {
		if strings.Contains(name, a.Contains) {
			return a.Name
		}
	}
	return name
}

// Canonical copies values and adds the API name of every aliased field.
// Original names are kept so the record still validates against the schema.
func Canonical(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for k, v := range values {
		if alias := CanonicalName(k); alias != k {
			if _, taken := values[alias]; !taken || isZero(values[alias]) {
				out[alias] = v
			}
		}
	}
	return out
}

func isZero(v any) bool {
	return v == nil || v == "" || v == false
}
