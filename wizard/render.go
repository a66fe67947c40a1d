package wizard

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/flosch/pongo2/v6"

	"github.com/raushankrgupta/udyam-registration/schema"
)

//go:embed templates/step.html
var stepSource string

var stepTemplate = pongo2.Must(pongo2.FromString(stepSource))

type optionView struct {
	Value string
	Label string
}

type fieldView struct {
	Name        string
	Kind        string
	Label       string
	Placeholder string
	MaxLength   int
	Value       string
	Checked     bool
	Options     []optionView
	Error       string
}

// Render writes the visible page as an HTML form with any inline errors
// from the last validation.
func (w *Wizard) Render(out io.Writer) error {
	fields := w.CurrentFields()
	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		views = append(views, w.view(f))
	}

	err := stepTemplate.ExecuteWriter(pongo2.Context{
		"labels":  w.Labels(),
		"current": w.current,
		"last":    w.IsLast(),
		"fields":  views,
	}, out)
	if err != nil {
		return fmt.Errorf("render step %d: %w", w.current+1, err)
	}
	return nil
}

func (w *Wizard) view(f schema.FieldDescriptor) fieldView {
	key := f.Key()
	v := fieldView{
		Name:        key,
		Kind:        f.Kind(),
		Label:       f.DisplayLabel(),
		Placeholder: f.Placeholder,
		MaxLength:   int(f.MaxLength),
		Error:       w.errors[key],
	}
	if v.Kind != "select" && v.Kind != "checkbox" {
		v.Kind = "input"
	}

	value := w.values[key]
	v.Checked = value == true
	if !schema.IsBlank(value) && value != false {
		v.Value = schema.Stringify(value)
	}
	for _, o := range f.Options {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		v.Options = append(v.Options, optionView{Value: o.Value, Label: label})
	}
	return v
}
