// Package wizard drives a multi-step form built from a FormSchema. Fields are
// split into pages, each page is validated on its own before the user may
// advance, and the accumulated values are sent once from the last page.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/schema"
)

var (
	// ErrNotLastStep is returned by Submit before the last page is reached.
	ErrNotLastStep = errors.New("wizard: submit is only allowed from the last step")
	// ErrNoSubmitter is returned by Submit when no Submitter was configured.
	ErrNoSubmitter = errors.New("wizard: no submitter configured")
)

// Submitter sends the accumulated values and returns the stored record id.
type Submitter interface {
	Submit(ctx context.Context, values map[string]any) (string, error)
}

// StepError lists the fields of a page that failed validation.
type StepError struct {
	Step   int
	Errors []schema.FieldError
	// Focus is the first invalid field in page order.
	Focus string
}

func (e *StepError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return fmt.Sprintf("step %d: %s", e.Step+1, strings.Join(msgs, "; "))
}

// fieldRule is the per-field validation derived once at construction.
type fieldRule struct {
	label     string
	required  bool
	checkbox  bool
	maxLength int
	pattern   *regexp.Regexp
}

type Option func(*Wizard)

// WithAutoFill enables postal-code lookups when the pin field is set.
func WithAutoFill(a *pincode.AutoFiller) Option {
	return func(w *Wizard) { w.autofill = a }
}

// WithSubmitter sets where Submit sends the values.
func WithSubmitter(s Submitter) Option {
	return func(w *Wizard) { w.submitter = s }
}

// Wizard holds the page state of one form session. It is not safe for
// concurrent use.
type Wizard struct {
	schema    *schema.FormSchema
	steps     [][]schema.FieldDescriptor
	rules     map[string]fieldRule
	values    map[string]any
	errors    map[string]string
	current   int
	autofill  *pincode.AutoFiller
	submitter Submitter
}

// New enriches s with inferred patterns and partitions it into pages.
func New(s *schema.FormSchema, opts ...Option) *Wizard {
	if s == nil {
		s = schema.Empty()
	}
	enriched := s.Enrich()
	w := &Wizard{
		schema: enriched,
		steps:  schema.Steps(enriched.Fields()),
		rules:  map[string]fieldRule{},
		values: map[string]any{},
		errors: map[string]string{},
	}
	for _, f := range enriched.Fields() {
		w.rules[f.Key()] = ruleFor(f)
		if f.Kind() == "checkbox" {
			w.values[f.Key()] = false
		} else {
			w.values[f.Key()] = ""
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func ruleFor(f schema.FieldDescriptor) fieldRule {
	r := fieldRule{
		label:     f.DisplayLabel(),
		required:  f.Required,
		checkbox:  f.Kind() == "checkbox",
		maxLength: int(f.MaxLength),
	}
	if f.Pattern != "" {
		// a pattern that does not compile is ignored
		if re, err := regexp.Compile(f.Pattern); err == nil {
			r.pattern = re
		}
	}
	return r
}

// Schema returns the enriched schema the wizard validates against.
func (w *Wizard) Schema() *schema.FormSchema { return w.schema }

// Len is the number of pages.
func (w *Wizard) Len() int { return len(w.steps) }

// Current is the zero-based index of the visible page.
func (w *Wizard) Current() int { return w.current }

// IsLast reports whether the visible page is the final one.
func (w *Wizard) IsLast() bool { return w.current >= len(w.steps)-1 }

// CurrentFields returns the fields of the visible page.
func (w *Wizard) CurrentFields() []schema.FieldDescriptor {
	if w.current >= len(w.steps) {
		return nil
	}
	return append([]schema.FieldDescriptor(nil), w.steps[w.current]...)
}

// Labels returns one progress label per page.
func (w *Wizard) Labels() []string {
	labels := make([]string, len(w.steps))
	for i := range w.steps {
		labels[i] = fmt.Sprintf("Step %d", i+1)
	}
	return labels
}

// Select jumps to page i without validating, like clicking the progress bar.
func (w *Wizard) Select(i int) {
	w.current = clamp(i, len(w.steps))
}

// Back moves one page back without validating.
func (w *Wizard) Back() {
	w.current = clamp(w.current-1, len(w.steps))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Set records a value. Setting the postal-code field to a six character
// value runs the auto-fill lookup; the fields it filled are returned.
func (w *Wizard) Set(ctx context.Context, name string, value any) map[string]string {
	w.values[name] = value
	delete(w.errors, name)

	if w.autofill == nil || name != w.autofill.PinField() {
		return nil
	}
	filled := w.autofill.AutoFill(ctx, w.values)
	for k := range filled {
		delete(w.errors, k)
	}
	return filled
}

// Value returns the current value of a field.
func (w *Wizard) Value(name string) any { return w.values[name] }

// Values returns a copy of every value entered so far.
func (w *Wizard) Values() map[string]any {
	out := make(map[string]any, len(w.values))
	for k, v := range w.values {
		out[k] = v
	}
	return out
}

// Errors returns the messages from the last failed validation, by field.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// Next validates the visible page. On success it advances (staying on the
// last page); on failure it stays and returns a *StepError.
func (w *Wizard) Next() error {
	if err := w.validateCurrent(); err != nil {
		return err
	}
	w.current = clamp(w.current+1, len(w.steps))
	return nil
}

// Validate checks the visible page without moving. On failure it returns a
// *StepError and records the messages shown by Errors and Render.
func (w *Wizard) Validate() error {
	return w.validateCurrent()
}

// Missing returns the fields, on any page, whose API name is one of names
// and whose value is still empty, unchecked or invalid. Callers use it to
// collect what an early API call needs before the user reaches the page
// holding it.
func (w *Wizard) Missing(names ...string) []schema.FieldDescriptor {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []schema.FieldDescriptor
	for _, f := range w.schema.Fields() {
		key := f.Key()
		if f.Kind() == "hidden" || !want[CanonicalName(key)] {
			continue
		}
		if isZero(w.values[key]) || w.check(key) != "" {
			out = append(out, f)
		}
	}
	return out
}

// Submit validates the last page and sends all values through the
// Submitter. A failed submit leaves the values in place.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	if !w.IsLast() {
		return "", ErrNotLastStep
	}
	if err := w.validateCurrent(); err != nil {
		return "", err
	}
	if w.submitter == nil {
		return "", ErrNoSubmitter
	}
	return w.submitter.Submit(ctx, w.Values())
}

func (w *Wizard) validateCurrent() error {
	var errs []schema.FieldError
	for _, f := range w.CurrentFields() {
		key := f.Key()
		if msg := w.check(key); msg != "" {
			w.errors[key] = msg
			errs = append(errs, schema.FieldError{Field: key, Message: msg})
		} else {
			delete(w.errors, key)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &StepError{Step: w.current, Errors: errs, Focus: errs[0].Field}
}

func (w *Wizard) check(key string) string {
	r, ok := w.rules[key]
	if !ok {
		return ""
	}
	v := w.values[key]

	if r.checkbox {
		if r.required && v != true {
			return r.label + " is required"
		}
		return ""
	}

	text := ""
	if !schema.IsBlank(v) {
		text = schema.Stringify(v)
	}
	if text == "" {
		if r.required {
			return r.label + " is required"
		}
		return ""
	}
	if r.maxLength > 0 && utf8.RuneCountInString(text) > r.maxLength {
		return fmt.Sprintf("Max %d characters", r.maxLength)
	}
	if r.pattern != nil && !r.pattern.MatchString(text) {
		return r.label + " invalid format"
	}
	return ""
}
