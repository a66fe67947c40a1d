package schema

import (
	"regexp"
	"sort"
	"strings"
)

// Default patterns inferred from field names.
const (
	AadhaarPattern = `^\d{12}$`
	PANPattern     = `^[A-Za-z]{5}[0-9]{4}[A-Za-z]{1}$`
	OTPPattern     = `^\d{6}$`
	PinPattern     = `^\d{6}$`
)

// PatternRule infers a pattern for fields whose lower-cased key matches.
type PatternRule struct {
	Name    string
	Match   *regexp.Regexp
	Pattern string
}

// PatternRules are evaluated in order against fields without a pattern;
// a later matching rule overrides an earlier one.
var PatternRules = []PatternRule{
	{Name: "aadhaar", Match: regexp.MustCompile(`aadhaar|adhar|aadhar|txtadharno`), Pattern: AadhaarPattern},
	{Name: "pan", Match: regexp.MustCompile(`pan|pancard|txtpan`), Pattern: PANPattern},
	{Name: "otp", Match: regexp.MustCompile(`otp`), Pattern: OTPPattern},
	{Name: "pin", Match: regexp.MustCompile(`pin|pincode|postal`), Pattern: PinPattern},
}

// InferPattern returns the pattern the rule table assigns to key, if any.
func InferPattern(key string) string {
	key = strings.ToLower(key)
	pattern := ""
	for _, rule := range PatternRules {
		if rule.Match.MatchString(key) {
			pattern = rule.Pattern
		}
	}
	return pattern
}

// Enrich returns a copy of s where fields lacking a pattern get one
// inferred from their key.
func (s *FormSchema) Enrich() *FormSchema {
	fields := s.Fields()
	for i := range fields {
		if fields[i].Pattern == "" {
			fields[i].Pattern = InferPattern(fields[i].Key())
		}
	}
	return New(s.source, s.fetchedAt, fields)
}

// Placement is the wizard page a field is assigned to.
type Placement int

const (
	// PlaceIdentity is the Aadhaar / owner / OTP page.
	PlaceIdentity Placement = iota
	// PlaceDetails is the PAN and everything-else page.
	PlaceDetails
	// PlaceNone drops the field from the wizard.
	PlaceNone
)

// StepRule classifies a field when no explicit step tags are present.
type StepRule struct {
	Name  string
	Match func(FieldDescriptor) bool
	Place Placement
}

func keyMatches(re *regexp.Regexp) func(FieldDescriptor) bool {
	return func(f FieldDescriptor) bool { return re.MatchString(f.Key()) }
}

// StepRules are evaluated in order; the first match wins. A field matching
// none lands on the details page.
var StepRules = []StepRule{
	{
		Name:  "identity",
		Match: keyMatches(regexp.MustCompile(`(?i)aadhaar|adhar|aadhar|txtadharno|ownername|validateaadhaar|otp`)),
		Place: PlaceIdentity,
	},
	{
		Name:  "pan",
		Match: keyMatches(regexp.MustCompile(`(?i)pan|pancard|txtpan|tan`)),
		Place: PlaceDetails,
	},
	{
		Name:  "hidden",
		Match: func(f FieldDescriptor) bool { return f.Kind() == "hidden" },
		Place: PlaceNone,
	},
}

// Classify places f using StepRules.
func Classify(f FieldDescriptor) Placement {
	for _, rule := range StepRules {
		if rule.Match(f) {
			return rule.Place
		}
	}
	return PlaceDetails
}

// fallbackBorrow is how many detail fields move to an empty first page.
const fallbackBorrow = 2

// Steps partitions fields into ordered wizard pages. When any field carries
// an explicit step tag, fields are grouped by tag (untagged fields count as
// step 0) in ascending tag order. Otherwise fields are classified by
// StepRules into two pages, and an empty first page borrows up to two
// fields from the second.
func Steps(fields []FieldDescriptor) [][]FieldDescriptor {
	if hasStepTags(fields) {
		return groupByTag(fields)
	}

	var identity, details []FieldDescriptor
	for _, f := range fields {
		switch Classify(f) {
		case PlaceIdentity:
			identity = append(identity, f)
		case PlaceDetails:
			details = append(details, f)
		}
	}

	if len(identity) == 0 && len(details) > 0 {
		n := min(fallbackBorrow, len(details))
		identity = append(identity, details[:n]...)
		details = append([]FieldDescriptor(nil), details[n:]...)
	}
	return [][]FieldDescriptor{identity, details}
}

func hasStepTags(fields []FieldDescriptor) bool {
	for _, f := range fields {
		if f.Step != nil {
			return true
		}
	}
	return false
}

func groupByTag(fields []FieldDescriptor) [][]FieldDescriptor {
	groups := map[int][]FieldDescriptor{}
	var tags []int
	for _, f := range fields {
		tag := 0
		if f.Step != nil {
			tag = *f.Step
		}
		if _, seen := groups[tag]; !seen {
			tags = append(tags, tag)
		}
		groups[tag] = append(groups[tag], f)
	}
	sort.Ints(tags)

	out := make([][]FieldDescriptor, 0, len(tags))
	for _, tag := range tags {
		out = append(out, groups[tag])
	}
	return out
}

// Subset returns a schema holding only the fields keep accepts.
func (s *FormSchema) Subset(keep func(FieldDescriptor) bool) *FormSchema {
	var fields []FieldDescriptor
	for _, f := range s.fields {
		if keep(f) {
			fields = append(fields, f)
		}
	}
	return New(s.source, s.fetchedAt, fields)
}

// FirstStep returns the fields of the wizard's first page as a schema.
func (s *FormSchema) FirstStep() *FormSchema {
	steps := Steps(s.fields)
	if len(steps) == 0 {
		return s.Subset(func(FieldDescriptor) bool { return false })
	}
	keys := make(map[string]bool, len(steps[0]))
	for _, f := range steps[0] {
		keys[f.Key()] = true
	}
	return s.Subset(func(f FieldDescriptor) bool { return keys[f.Key()] })
}
