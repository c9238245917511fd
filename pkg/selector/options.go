package selector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidOptions is returned when a rule options object fails schema validation.
var ErrInvalidOptions = errors.New("invalid rule options")

// OptionsSchema is the JSON Schema for the rule options object.
// Unknown keys are rejected.
const OptionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "allowIds": { "type": "boolean", "default": false },
    "allowTags": { "type": "boolean", "default": false },
    "disallowClasses": { "type": "boolean", "default": true }
  },
  "additionalProperties": false
}`

const schemaURL = "selectorlint://no-classes-by-css/options.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(OptionsSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing options schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding options schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// ValidateOptions checks a raw options object against OptionsSchema.
// A nil value is valid and means "all defaults".
func ValidateOptions(raw any) error {
	if raw == nil {
		return nil
	}

	sch, err := compileSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so values decoded by TOML/YAML parsers
	// (int64, map[any]any, ...) reach the validator as plain JSON types.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// ParseOptions validates raw and returns the resulting policy.
// Keys absent from raw keep their DefaultPolicy value.
func ParseOptions(raw any) (Policy, error) {
	policy := DefaultPolicy()
	if raw == nil {
		return policy, nil
	}
	if err := ValidateOptions(raw); err != nil {
		return Policy{}, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := json.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return policy, nil
}
