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
			args:    []string{"-a", "http://host", "-x", "junk"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://host"},
		},
		{
			name:    "equals form",
			args:    []string{"--api=http://host", "--other=1"},
			allowed: []string{"--api"},
			want:    []string{"--api=http://host"},
		},
		{
			name:    "flag without value",
			args:    []string{"-v", "-a", "http://host"},
			allowed: []string{"-v", "-a"},
			want:    []string{"-v", "-a", "http://host"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1", "-b", "2"},
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
