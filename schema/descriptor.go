// Package schema describes registration forms declaratively and validates
// submitted records against them.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Length is a character limit. Scraped schemas carry it as a string
// attribute value, hand-written ones as a number; both decode.
type Length int

func (l *Length) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*l = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid maxlength %q: %w", raw, err)
	}
	*l = Length(n)
	return nil
}

func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" || node.Tag == "!!null" {
		*l = 0
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("invalid maxlength %q: %w", node.Value, err)
	}
	*l = Length(n)
	return nil
}

// FieldDescriptor declares one form input.
type FieldDescriptor struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Tag         string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MaxLength   Length   `json:"maxlength,omitempty" yaml:"maxlength,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Step        *int     `json:"step,omitempty" yaml:"step,omitempty"`
}

// Key is the name the field's value is submitted under.
func (f FieldDescriptor) Key() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// Kind reports the input kind, preferring Type over Tag.
func (f FieldDescriptor) Kind() string {
	if f.Type != "" {
		return f.Type
	}
	return f.Tag
}

// ErrorLabel is the label used in server-side validation messages.
func (f FieldDescriptor) ErrorLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key()
}

// DisplayLabel is the label shown next to a rendered input.
func (f FieldDescriptor) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Placeholder != "" {
		return f.Placeholder
	}
	return Prettify(f.Key())
}

var nameSeparators = regexp.MustCompile(`[_\-$.\d]+`)

// Prettify turns a raw input name such as "ctl00$txt_owner" into words.
func Prettify(name string) string {
	words := strings.Fields(nameSeparators.ReplaceAllString(name, " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func (f FieldDescriptor) clone() FieldDescriptor {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Step != nil {
		step := *f.Step
		out.Step = &step
	}
	return out
}

// FormSchema is an ordered, read-only list of field descriptors. Patterns
// are compiled once when the schema is built.
type FormSchema struct {
	source    string
	fetchedAt string
	fields    []FieldDescriptor
	compiled  []*regexp.Regexp
	issues    []error
}

// document is the serialized shape of a FormSchema.
type document struct {
	Source    string            `json:"source,omitempty" yaml:"source,omitempty"`
	FetchedAt string            `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
	Fields    []FieldDescriptor `json:"fields" yaml:"fields"`
}

// New builds a schema from descriptors. A descriptor whose pattern does not
// compile keeps its other rules; the pattern is dropped and reported in
// Issues as a *ConfigurationError.
func New(source, fetchedAt string, fields []FieldDescriptor) *FormSchema {
	s := &FormSchema{
		source:    source,
		fetchedAt: fetchedAt,
		fields:    make([]FieldDescriptor, len(fields)),
		compiled:  make([]*regexp.Regexp, len(fields)),
	}
	for i, f := range fields {
		s.fields[i] = f.clone()
		if f.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			s.fields[i].Pattern = ""
			s.issues = append(s.issues, &ConfigurationError{Source: source, Field: f.Key(), Err: err})
			continue
		}
		s.compiled[i] = re
	}
	return s
}

// Empty is the schema served when no schema file could be loaded.
func Empty() *FormSchema {
	return New("", "", nil)
}

func (s *FormSchema) Source() string { return s.source }

func (s *FormSchema) FetchedAt() string { return s.fetchedAt }

func (s *FormSchema) Len() int { return len(s.fields) }

// Fields returns a copy of the descriptors in schema order.
func (s *FormSchema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// Field looks a descriptor up by key.
func (s *FormSchema) Field(key string) (FieldDescriptor, bool) {
	for _, f := range s.fields {
		if f.Key() == key {
			return f.clone(), true
		}
	}
	return FieldDescriptor{}, false
}

// Issues lists configuration problems found while building the schema.
func (s *FormSchema) Issues() []error {
	return append([]error(nil), s.issues...)
}

func (s *FormSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Source: s.source, FetchedAt: s.fetchedAt, Fields: s.Fields()})
}
