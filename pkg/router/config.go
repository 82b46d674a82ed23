// Package router edits the claude-code-router configuration file and
// controls the proxy process.
package router

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/grovetools/companion/errors"
)

// FlexString is a value the router accepts either as a JSON string or as a
// number. The original form is kept when it is written back.
type FlexString struct {
	Value  string
	Number bool
}

// String returns the value.
func (f FlexString) String() string { return f.Value }

// IsZero reports whether the value is unset.
func (f FlexString) IsZero() bool { return f.Value == "" }

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexString{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString{Value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString{Value: n.String(), Number: true}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if f.Number {
		if _, err := strconv.ParseFloat(f.Value, 64); err == nil {
			return []byte(f.Value), nil
		}
	}
	return json.Marshal(f.Value)
}

// Provider is one upstream model provider.
type Provider struct {
	Name        string          `json:"name" jsonschema:"description=Provider name used in routes"`
	APIBaseURL  string          `json:"api_base_url" jsonschema:"description=Chat completions endpoint"`
	APIKey      string          `json:"api_key"`
	Models      []string        `json:"models" jsonschema:"description=Model identifiers served by the provider"`
	Transformer json.RawMessage `json:"transformer,omitempty" jsonschema:"description=Request/response transformer settings"`
	// Deleted marks a provider that is dropped on the next save.
	Deleted bool `json:"deleted,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Routes maps request classes to "provider,model" targets.
type Routes struct {
	Default              string     `json:"default,omitempty" jsonschema:"description=Provider and model joined by a comma; used when no other route applies"`
	Background           string     `json:"background,omitempty"`
	Think                string     `json:"think,omitempty"`
	LongContext          string     `json:"longContext,omitempty"`
	LongContextThreshold FlexString `json:"longContextThreshold,omitzero"`
	WebSearch            string     `json:"webSearch,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Config is the router configuration file. Keys this type does not model
// are kept in Extra and written back unchanged.
type Config struct {
	ProxyURL     string     `json:"PROXY_URL,omitempty" jsonschema:"description=Outbound HTTP proxy"`
	Log          *bool      `json:"LOG,omitempty" jsonschema:"description=Enable request logging"`
	APIKey       string     `json:"APIKEY,omitempty"`
	Host         string     `json:"HOST,omitempty"`
	APITimeoutMS FlexString `json:"API_TIMEOUT_MS,omitzero" jsonschema:"description=Upstream request timeout in milliseconds"`
	Providers    []Provider `json:"Providers,omitempty"`
	Router       *Routes    `json:"Router,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var (
	configKeys   = []string{"PROXY_URL", "LOG", "APIKEY", "HOST", "API_TIMEOUT_MS", "Providers", "Router"}
	providerKeys = []string{"name", "api_base_url", "api_key", "models", "transformer", "deleted"}
	routesKeys   = []string{"default", "background", "think", "longContext", "longContextThreshold", "webSearch"}
)

func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	extra, err := unknownKeys(data, configKeys)
	c.Extra = extra
	return err
}

func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return withExtra(plain(c), c.Extra)
}

func (p *Provider) UnmarshalJSON(data []byte) error {
	type plain Provider
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	extra, err := unknownKeys(data, providerKeys)
	p.Extra = extra
	return err
}

func (p Provider) MarshalJSON() ([]byte, error) {
	type plain Provider
	if p.Models == nil {
		p.Models = []string{}
	}
	return withExtra(plain(p), p.Extra)
}

func (r *Routes) UnmarshalJSON(data []byte) error {
	type plain Routes
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	extra, err := unknownKeys(data, routesKeys)
	r.Extra = extra
	return err
}

func (r Routes) MarshalJSON() ([]byte, error) {
	type plain Routes
	return withExtra(plain(r), r.Extra)
}

// unknownKeys returns the members of the JSON object data not listed in known.
func unknownKeys(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// withExtra marshals v and appends the extra members it does not already
// set. Known members keep their field order; extras follow sorted by key.
func withExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var set map[string]json.RawMessage
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := set[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for i, k := range keys {
		if len(set) > 0 || i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := json.Compact(&buf, extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Load reads the configuration at path. A missing file is an empty
// configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read router config").
			WithDetail("path", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Config{}, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.CorruptData(path, err)
	}
	return &cfg, nil
}

// Save validates cfg, drops providers marked deleted, and overwrites path
// with two-space indented JSON, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	out := *cfg
	out.Providers = make([]Provider, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if !p.Deleted {
			out.Providers = append(out.Providers, p)
		}
	}

	if err := Validate(&out); err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode router config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create router config directory").
			WithDetail("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write router config").
			WithDetail("path", path)
	}
	*cfg = out
	return nil
}
