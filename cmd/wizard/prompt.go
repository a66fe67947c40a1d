package main

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/raushankrgupta/udyam-registration/schema"
)

// askField prompts for one field, offering the current value as default.
func askField(ctx context.Context, f schema.FieldDescriptor, current any, problem string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	label := f.DisplayLabel()
	help := problem

	switch {
	case f.Kind() == "checkbox":
		var out bool
		prompt := &survey.Confirm{Message: label, Help: help, Default: current == true}
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, translateSurveyErr(err)
		}
		return out, nil

	case f.Kind() == "select" && len(f.Options) > 0:
		labels := make([]string, len(f.Options))
		for i, o := range f.Options {
			labels[i] = o.Label
			if labels[i] == "" {
				labels[i] = o.Value
			}
		}
		prompt := &survey.Select{Message: label, Options: labels, Help: help}
		for i, o := range f.Options {
			if o.Value == schema.Stringify(current) {
				prompt.Default = labels[i]
			}
		}
		var out string
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, translateSurveyErr(err)
		}
		for i, l := range labels {
			if l == out {
				return f.Options[i].Value, nil
			}
		}
		return "", nil

	default:
		prompt := &survey.Input{Message: label, Help: help}
		if !schema.IsBlank(current) {
			prompt.Default = schema.Stringify(current)
		}
		if f.Placeholder != "" && prompt.Help == "" {
			prompt.Help = f.Placeholder
		}
		var out string
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, translateSurveyErr(err)
		}
		return strings.TrimSpace(out), nil
	}
}

func askInput(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Input{Message: message}, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", translateSurveyErr(err)
	}
	return strings.TrimSpace(out), nil
}

func askConfirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}
