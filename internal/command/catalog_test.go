package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		def  map[string]any
		want string
	}{
		{"elastic", map[string]any{"type": "Elastic", "tag": 1, "E": 29000},
			"uniaxialMaterial Elastic 1 29000"},
		{"steel01 with floats for ints", map[string]any{"type": "Steel01", "tag": 1.0, "Fy": 50, "E": 29000, "b": 0.003},
			"uniaxialMaterial Steel01 1 50 29000 0.003"},
		{"steel02 defaults", map[string]any{"type": "Steel02", "tag": 3, "Fy": 415, "E": 200000, "b": 0.01},
			"uniaxialMaterial Steel02 3 415 200000 0.01 20 0.925 0.15"},
		{"steel02 iso and sigma", map[string]any{"type": "Steel02", "tag": 3, "Fy": 415, "E": 200000, "b": 0.01,
			"R0": 18, "iso": []any{0.1, 1, 0.1, 1}, "sigma_i": 5},
			"uniaxialMaterial Steel02 3 415 200000 0.01 18 0.925 0.15 0.1 1 0.1 1 5"},
		{"instance format", map[string]any{"type": "Elastic", "tag": 1, "E": 29000, "format": map[string]any{"float": ".2e"}},
			"uniaxialMaterial Elastic 1 2.90e+04"},
		{"raw", map[string]any{"type": "raw", "line": "uniaxialMaterial Elastic 9 1"},
			"uniaxialMaterial Elastic 9 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Render(c))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		def  map[string]any
	}{
		{"missing type", map[string]any{"tag": 1}},
		{"unknown type", map[string]any{"type": "Concrete99", "tag": 1}},
		{"unknown key", map[string]any{"type": "Elastic", "tag": 1, "E": 1, "Q": 2}},
		{"not a number", map[string]any{"type": "Elastic", "tag": 1, "E": "stiff"}},
		{"fractional tag", map[string]any{"type": "Elastic", "tag": 1.5, "E": 1}},
		{"incomplete hardening", map[string]any{"type": "Steel01", "tag": 1, "Fy": 50, "E": 29000, "b": 0.01, "iso": []any{0.1}}},
		{"raw without line", map[string]any{"type": "raw", "text": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.def)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDecodeAllFromYAML(t *testing.T) {
	src := `
- type: Steel01
  tag: 1
  Fy: 50
  E: 29000
  b: 0.003
- type: Elastic
  tag: 2
  E: 29000
  eta: 0.5
`
	var defs []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &defs))

	cmds, err := DecodeAll(defs)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "uniaxialMaterial Steel01 1 50 29000 0.003", Render(cmds[0]))
	assert.Equal(t, "uniaxialMaterial Elastic 2 29000 0.5", Render(cmds[1]))

	defs[1]["E"] = "soft"
	_, err = DecodeAll(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definition 2")
}

func TestMaterialTypes(t *testing.T) {
	assert.Equal(t, []string{"Elastic", "ElasticPP", "Hardening", "Steel01", "Steel02", "raw"}, MaterialTypes())
}
