package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grovetools/companion/errors"
)

// Field names accepted by SetField. Route fields are prefixed with "Router.".
var (
	topFields   = []string{"PROXY_URL", "LOG", "APIKEY", "HOST", "API_TIMEOUT_MS"}
	routeFields = []string{"default", "background", "think", "longContext", "longContextThreshold", "webSearch"}
)

// FieldNames lists every settable field.
func FieldNames() []string {
	names := append([]string{}, topFields...)
	for _, f := range routeFields {
		names = append(names, "Router."+f)
	}
	return names
}

// SetField assigns value to the named field. Names match case-insensitively.
// An empty value clears the field.
func (c *Config) SetField(field, value string) error {
	name, ok := canonicalField(field)
	if !ok {
		return errors.InvalidInput(fmt.Sprintf("unknown router field '%s'", field)).
			WithDetail("fields", strings.Join(FieldNames(), ", "))
	}

	switch name {
	case "PROXY_URL":
		c.ProxyURL = value
	case "LOG":
		if value == "" {
			c.Log = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.InvalidInput(fmt.Sprintf("LOG must be true or false, got '%s'", value))
		}
		c.Log = &b
	case "APIKEY":
		c.APIKey = value
	case "HOST":
		c.Host = value
	case "API_TIMEOUT_MS":
		c.APITimeoutMS = setFlex(c.APITimeoutMS, value)
	default:
		if c.Router == nil {
			c.Router = &Routes{}
		}
		c.Router.set(strings.TrimPrefix(name, "Router."), value)
	}
	return nil
}

func (r *Routes) set(name, value string) {
	switch name {
	case "default":
		r.Default = value
	case "background":
		r.Background = value
	case "think":
		r.Think = value
	case "longContext":
		r.LongContext = value
	case "longContextThreshold":
		r.LongContextThreshold = setFlex(r.LongContextThreshold, value)
	case "webSearch":
		r.WebSearch = value
	}
}

// setFlex keeps the stored form of a numeric-ish field. Unset fields become
// numbers when the value is numeric.
func setFlex(current FlexString, value string) FlexString {
	if value == "" {
		return FlexString{}
	}
	_, err := strconv.ParseFloat(value, 64)
	numeric := err == nil
	if current.IsZero() {
		return FlexString{Value: value, Number: numeric}
	}
	return FlexString{Value: value, Number: current.Number && numeric}
}

func canonicalField(field string) (string, bool) {
	for _, name := range FieldNames() {
		if strings.EqualFold(name, field) {
			return name, true
		}
	}
	for _, f := range routeFields {
		if strings.EqualFold(f, field) {
			return "Router." + f, true
		}
	}
	return "", false
}

// Fields flattens the configuration into name/value pairs for display.
// Secrets are masked unless reveal is set.
func (c *Config) Fields(reveal bool) [][2]string {
	secret := func(s string) string {
		if reveal || s == "" {
			return s
		}
		return Mask(s)
	}

	logValue := ""
	if c.Log != nil {
		logValue = strconv.FormatBool(*c.Log)
	}
	rows := [][2]string{
		{"PROXY_URL", c.ProxyURL},
		{"LOG", logValue},
		{"APIKEY", secret(c.APIKey)},
		{"HOST", c.Host},
		{"API_TIMEOUT_MS", c.APITimeoutMS.String()},
	}

	routes := Routes{}
	if c.Router != nil {
		routes = *c.Router
	}
	rows = append(rows,
		[2]string{"Router.default", routes.Default},
		[2]string{"Router.background", routes.Background},
		[2]string{"Router.think", routes.Think},
		[2]string{"Router.longContext", routes.LongContext},
		[2]string{"Router.longContextThreshold", routes.LongContextThreshold.String()},
		[2]string{"Router.webSearch", routes.WebSearch},
	)

	extra := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		rows = append(rows, [2]string{k, compact(c.Extra[k])})
	}
	return rows
}

// Mask hides all but the last four characters of a secret.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func compact(raw json.RawMessage) string {
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return string(raw)
	}
	return out.String()
}
