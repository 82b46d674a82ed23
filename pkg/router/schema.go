package router

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/schema"
	"github.com/invopop/jsonschema"
)

// JSONSchema describes FlexString as a string or a number.
func (FlexString) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{{Type: "string"}, {Type: "number"}},
	}
}

var rawMessageType = reflect.TypeOf(json.RawMessage{})

// GenerateSchema returns the JSON Schema of the router configuration file.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are preserved, so they must validate.
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == rawMessageType {
				return &jsonschema.Schema{Type: "object"}
			}
			return nil
		},
	}

	s := r.Reflect(&Config{})
	s.Title = "claude-code-router configuration"
	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// Validate checks cfg against the router schema.
func Validate(cfg *Config) error {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		validator, validatorErr = schema.NewValidator("router-config.json", data)
	})
	if validatorErr != nil {
		return errors.Wrap(validatorErr, errors.ErrCodeInternal, "failed to build router schema")
	}

	if err := validator.Validate(cfg); err != nil {
		return errors.ConfigInvalid("router config: " + strings.TrimPrefix(err.Error(), "schema validation failed:")).
			WithDetail("schema", "router-config.json")
	}
	return nil
}
