package flagx

import (
	"os"
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
			args:    []string{"-a", "http://x", "-z", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://x"},
		},
		{
			name:    "inline value",
			args:    []string{"-config=app.toml", "-a=1"},
			allowed: []string{"-config"},
			want:    []string{"-config=app.toml"},
		},
		{
			name:    "flag followed by another flag has no value",
			args:    []string{"-v", "-a", "x"},
			allowed: []string{"-v", "-a"},
			want:    []string{"-v", "-a", "x"},
		},
		{
			name:    "positional arguments are dropped",
			args:    []string{"decks", "-t", "30"},
			allowed: []string{"-t"},
			want:    []string{"-t", "30"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "x"},
			allowed: nil,
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
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"studydeck", "-a", "http://x", "-c", "cfg.json"}
	assert.Equal(t, "cfg.json", ConfigFileFlag())

	os.Args = []string{"studydeck", "-config=other.toml"}
	assert.Equal(t, "other.toml", ConfigFileFlag())

	os.Args = []string{"studydeck"}
	assert.Equal(t, "", ConfigFileFlag())
}
