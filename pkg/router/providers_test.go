package router

import (
	"testing"

	"github.com/grovetools/companion/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviders(t *testing.T) {
	c := &Config{}
	assert.Equal(t, 0, c.AddProvider(Provider{Name: "deepseek"}))
	assert.Equal(t, 1, c.AddProvider(Provider{Name: "ollama"}))
	assert.Equal(t, []string{}, c.Providers[0].Models)

	require.NoError(t, c.SetProviderField(0, "url", "https://api.deepseek.com/chat/completions"))
	require.NoError(t, c.SetProviderField(0, "API_KEY", "sk-1"))
	require.NoError(t, c.SetProviderField(0, "models", "deepseek-chat, deepseek-reasoner", "extra"))
	require.NoError(t, c.SetProviderField(0, "transformer", `{"use": ["deepseek"]}`))

	p := c.Providers[0]
	assert.Equal(t, "https://api.deepseek.com/chat/completions", p.APIBaseURL)
	assert.Equal(t, "sk-1", p.APIKey)
	assert.Equal(t, []string{"deepseek-chat", "deepseek-reasoner", "extra"}, p.Models)
	assert.JSONEq(t, `{"use": ["deepseek"]}`, string(p.Transformer))

	require.NoError(t, c.SetProviderField(0, "transformer"))
	assert.Nil(t, c.Providers[0].Transformer)

	idx, ok := c.FindProvider("ollama")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = c.FindProvider("missing")
	assert.False(t, ok)

	removed, err := c.RemoveProvider(0)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", removed.Name)
	require.Len(t, c.Providers, 1)
	assert.Equal(t, "ollama", c.Providers[0].Name)
}

func TestProviderErrors(t *testing.T) {
	c := &Config{}
	c.AddProvider(Provider{Name: "p"})

	tests := []struct {
		name   string
		index  int
		field  string
		values []string
		want   errors.ErrorCode
	}{
		{"index too large", 1, "name", []string{"x"}, errors.ErrCodeNotFound},
		{"negative index", -1, "name", []string{"x"}, errors.ErrCodeNotFound},
		{"unknown field", 0, "priority", []string{"1"}, errors.ErrCodeInvalidInput},
		{"two values", 0, "name", []string{"a", "b"}, errors.ErrCodeInvalidInput},
		{"no value", 0, "api_key", nil, errors.ErrCodeInvalidInput},
		{"transformer not an object", 0, "transformer", []string{`["a"]`}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetProviderField(tt.index, tt.field, tt.values...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := c.RemoveProvider(3)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, "p", c.Providers[0].Name)
}
