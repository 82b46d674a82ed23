package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/companion/errors"
)

// ProviderFields are the provider attributes SetProviderField accepts.
var ProviderFields = []string{"name", "api_base_url", "api_key", "models", "transformer"}

// AddProvider appends p and returns its index.
func (c *Config) AddProvider(p Provider) int {
	if p.Models == nil {
		p.Models = []string{}
	}
	c.Providers = append(c.Providers, p)
	return len(c.Providers) - 1
}

// RemoveProvider splices out the provider at index.
func (c *Config) RemoveProvider(index int) (Provider, error) {
	if err := c.checkIndex(index); err != nil {
		return Provider{}, err
	}
	removed := c.Providers[index]
	c.Providers = append(c.Providers[:index:index], c.Providers[index+1:]...)
	return removed, nil
}

// SetProviderField edits one attribute of the provider at index. "models"
// takes every value (comma separated lists are split); "transformer" takes
// a JSON object; the other fields take exactly one value.
func (c *Config) SetProviderField(index int, field string, values ...string) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	p := &c.Providers[index]

	switch strings.ToLower(field) {
	case "models":
		p.Models = splitModels(values)
		return nil
	case "transformer":
		raw := strings.TrimSpace(strings.Join(values, " "))
		if raw == "" {
			p.Transformer = nil
			return nil
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return errors.InvalidInput("transformer must be a JSON object").WithDetail("value", raw)
		}
		p.Transformer = json.RawMessage(raw)
		return nil
	}

	if len(values) != 1 {
		return errors.InvalidInput(fmt.Sprintf("provider field '%s' takes exactly one value", field))
	}
	value := values[0]
	switch strings.ToLower(field) {
	case "name":
		p.Name = value
	case "api_base_url", "url":
		p.APIBaseURL = value
	case "api_key", "key":
		p.APIKey = value
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown provider field '%s'", field)).
			WithDetail("fields", strings.Join(ProviderFields, ", "))
	}
	return nil
}

// FindProvider returns the index of the provider with the given name.
func (c *Config) FindProvider(name string) (int, bool) {
	for i, p := range c.Providers {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (c *Config) checkIndex(index int) error {
	if index < 0 || index >= len(c.Providers) {
		return errors.NotFound("provider", fmt.Sprintf("#%d", index)).
			WithDetail("count", len(c.Providers))
	}
	return nil
}

func splitModels(values []string) []string {
	models := []string{}
	for _, v := range values {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
	}
	return models
}
