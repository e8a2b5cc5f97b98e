package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Decode checks raw against schema and unmarshals it into out.
// Malformed JSON is a parsing error; a well-formed object that does not
// match the schema is a validation error.
func Decode(raw json.RawMessage, schema Schema, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return newError(ErrParsing, "response is not a JSON object: %v", err)
	}

	for _, name := range schema.Required {
		if _, ok := fields[name]; !ok {
			return newError(ErrValidation, "missing required field %q", name)
		}
	}

	for name, value := range fields {
		prop, ok := schema.Properties[name]
		if !ok {
			return newError(ErrValidation, "unexpected field %q", name)
		}
		if err := checkType(name, prop, value); err != nil {
			return err
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return newError(ErrParsing, "decoding %s: %v", schema.Name, err)
	}
	return nil
}

func checkType(name string, prop Property, value json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return newError(ErrValidation, "field %q must not be null", name)
	}
	switch prop.Type {
	case "string":
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return newError(ErrValidation, "field %q must be a string", name)
		}
	case "array":
		var items []string
		if err := json.Unmarshal(value, &items); err != nil {
			return newError(ErrValidation, "field %q must be an array of strings", name)
		}
		if prop.MinItems > 0 && len(items) < prop.MinItems {
			return newError(ErrValidation, "field %q needs at least %d items, got %d", name, prop.MinItems, len(items))
		}
		if prop.MaxItems > 0 && len(items) > prop.MaxItems {
			return newError(ErrValidation, "field %q allows at most %d items, got %d", name, prop.MaxItems, len(items))
		}
		for i, item := range items {
			if strings.TrimSpace(item) == "" {
				return newError(ErrValidation, "field %q item %d is empty", name, i)
			}
		}
	}
	return nil
}
