package appconfig

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// FormFieldType tags a user input form field variant.
type FormFieldType string

const (
	FormFieldTextInput FormFieldType = "text-input"
	FormFieldParagraph FormFieldType = "paragraph"
	FormFieldSelect    FormFieldType = "select"
)

// Variable names: no leading digit, 1-100 chars drawn from letters, digits,
// underscore, CJK ideographs and the common emoji blocks.
var variablePattern = regexp.MustCompile(
	`^[\x{4e00}-\x{9fa5}A-Za-z_\x{1F300}-\x{1F64F}\x{1F680}-\x{1F6FF}]` +
		`[\x{4e00}-\x{9fa5}A-Za-z0-9_\x{1F300}-\x{1F64F}\x{1F680}-\x{1F6FF}]{0,99}$`)

// FormField is one user input form entry. On the wire it is a single-key
// object whose key is the variant tag:
//
//	{"select": {"label": "...", "variable": "...", "options": [...]}}
//
// Options and Default are only meaningful for the select variant.
type FormField struct {
	Type     FormFieldType
	Label    string
	Variable string
	Required bool
	Options  []string
	Default  string
}

// decodeFormField dispatches on the variant tag and validates the body.
// The item must have exactly one key; the original wire format is a
// single-key map and anything else has no well-defined tag.
func decodeFormField(item map[string]any) (FormField, error) {
	if len(item) != 1 {
		return FormField{}, schemaErr("user_input_form",
			"items in user_input_form must be objects with a single variant key")
	}

	var tag string
	var rawBody any
	for k, v := range item {
		tag, rawBody = k, v
	}

	switch FormFieldType(tag) {
	case FormFieldTextInput, FormFieldParagraph, FormFieldSelect:
	default:
		return FormField{}, schemaErr("user_input_form",
			"Keys in user_input_form list can only be 'text-input', 'paragraph' or 'select'")
	}

	body, ok := rawBody.(map[string]any)
	if !ok {
		return FormField{}, schemaErr("user_input_form",
			fmt.Sprintf("%s in user_input_form must be of object type", tag))
	}

	f := FormField{Type: FormFieldType(tag)}

	labelRaw, ok := body["label"]
	if !ok {
		return FormField{}, schemaErr("user_input_form", "label is required in user_input_form")
	}
	label, ok := labelRaw.(string)
	if !ok {
		return FormField{}, schemaErr("user_input_form", "label in user_input_form must be of string type")
	}
	f.Label = label

	varRaw, ok := body["variable"]
	if !ok {
		return FormField{}, schemaErr("user_input_form", "variable is required in user_input_form")
	}
	variable, ok := varRaw.(string)
	if !ok {
		return FormField{}, schemaErr("user_input_form", "variable in user_input_form must be of string type")
	}
	if !variablePattern.MatchString(variable) {
		return FormField{}, schemaErr("user_input_form",
			"variable in user_input_form must be a string, and cannot start with a number")
	}
	f.Variable = variable

	if req, present := body["required"]; present && !falsy(req) {
		b, ok := req.(bool)
		if !ok {
			return FormField{}, schemaErr("user_input_form",
				"required in user_input_form must be of boolean type")
		}
		f.Required = b
	}

	if f.Type == FormFieldSelect {
		f.Options = []string{}
		if opts, present := body["options"]; present && !falsy(opts) {
			list, ok := opts.([]any)
			if !ok {
				return FormField{}, schemaErr("user_input_form",
					"options in user_input_form must be a list of strings")
			}
			for _, o := range list {
				s, ok := o.(string)
				if !ok {
					return FormField{}, schemaErr("user_input_form",
						"options in user_input_form must be a list of strings")
				}
				f.Options = append(f.Options, s)
			}
		}

		if def, present := body["default"]; present && !falsy(def) {
			s, ok := def.(string)
			if !ok || !contains(f.Options, s) {
				return FormField{}, schemaErr("user_input_form",
					"default value in user_input_form must be in the options list")
			}
			f.Default = s
		}
	}

	return f, nil
}

// MarshalJSON emits the single-key variant form so that a validated
// document round-trips through its wire representation unchanged.
func (f FormField) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"label":    f.Label,
		"variable": f.Variable,
		"required": f.Required,
	}
	if f.Type == FormFieldSelect {
		opts := f.Options
		if opts == nil {
			opts = []string{}
		}
		body["options"] = opts
		if f.Default != "" {
			body["default"] = f.Default
		}
	}
	return json.Marshal(map[string]any{string(f.Type): body})
}

// UnmarshalJSON accepts the single-key variant form.
func (f *FormField) UnmarshalJSON(data []byte) error {
	var item map[string]any
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	decoded, err := decodeFormField(item)
	if err != nil {
		return err
	}
	*f = decoded
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
