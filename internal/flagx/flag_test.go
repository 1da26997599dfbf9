package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.yaml", "-a", "http://localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.yaml"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-d", "2s"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "dash-prefixed token is not a value",
			args:    []string{"-c", "-d", "3s"},
			allowed: []string{"-c", "-d"},
			want:    []string{"-c", "-d", "3s"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.yaml", ConfigFileFlag([]string{"-a", "x", "-c", "a.yaml"}))
	assert.Equal(t, "b.json", ConfigFileFlag([]string{"-config", "b.json"}))
	assert.Equal(t, "c.yml", ConfigFileFlag([]string{"--config=c.yml"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-a", "x"}))
}
