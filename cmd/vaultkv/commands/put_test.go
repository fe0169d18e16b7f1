package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaultkv/pkg/kv"
)

func TestParseFields(t *testing.T) {
	t.Parallel()

	secret, err := parseFields([]string{
		"api_key=xyz",
		"retries:=3",
		"enabled:=true",
		`urls:=["a","b"]`,
		"empty=",
	})
	require.NoError(t, err)

	assert.Equal(t, kv.Secret{
		"api_key": "xyz",
		"retries": float64(3),
		"enabled": true,
		"urls":    []any{"a", "b"},
		"empty":   "",
	}, secret)
}

func TestParseFields_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pair string
	}{
		{"no separator", "just-a-word"},
		{"empty name", "=value"},
		{"bad json", "count:=not-json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseFields([]string{tt.pair})
			assert.Error(t, err)
		})
	}
}

func TestPutThenGetRoundTrip(t *testing.T) {
	cfg := newTestConfig(t, "secrets: {}\n")

	put := NewPutCommand(cfg)
	put.SetArgs([]string{"kv/app/new", "api_key=fresh", "retries:=5"})
	require.NoError(t, put.Execute())

	get := NewGetCommand(cfg)
	output := captureOutput(t, get, []string{"kv/app/new"})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "fresh", result["api_key"])
	assert.Equal(t, float64(5), result["retries"])
}

func TestPutReplacesWholeSecret(t *testing.T) {
	cfg := newTestConfig(t, credsFixture)

	put := NewPutCommand(cfg)
	put.SetArgs([]string{"kv/app/creds", "only_field=left"})
	require.NoError(t, put.Execute())

	get := NewGetCommand(cfg)
	output := captureOutput(t, get, []string{"kv/app/creds"})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, map[string]interface{}{"only_field": "left"}, result)
}

func TestPutRequiresFields(t *testing.T) {
	cfg := newTestConfig(t, "secrets: {}\n")

	cmd := NewPutCommand(cfg)
	cmd.SetArgs([]string{"kv/app/new"})

	assert.Error(t, cmd.Execute())
}
