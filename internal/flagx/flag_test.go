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
			"separate value form",
			[]string{"-a", ":8080", "-x", "junk"},
			[]string{"-a"},
			[]string{"-a", ":8080"},
		},
		{
			"equals form",
			[]string{"--config=conf.json", "--other=1"},
			[]string{"--config"},
			[]string{"--config=conf.json"},
		},
		{
			"flag followed by another flag keeps no value",
			[]string{"-a", "-b", "x"},
			[]string{"-a", "-b"},
			[]string{"-a", "-b", "x"},
		},
		{
			"nothing allowed",
			[]string{"-a", "1"},
			nil,
			[]string{},
		},
		{
			"empty args",
			nil,
			[]string{"-a"},
			[]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
