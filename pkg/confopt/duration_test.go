// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		"duration string":   {input: "300ms", want: 300 * time.Millisecond},
		"compound duration": {input: "1m30s", want: 90 * time.Second},
		"integer seconds":   {input: "10", want: 10 * time.Second},
		"float seconds":     {input: "1.5", want: 1500 * time.Millisecond},
		"negative":          {input: "-10", want: -10 * time.Second},
		"not a duration":    {input: "forever", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(test.input), &d)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, d.Duration())
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		input string
		want  time.Duration
	}{
		"duration string": {input: `"2s"`, want: 2 * time.Second},
		"integer seconds": {input: `10`, want: 10 * time.Second},
		"float seconds":   {input: `0.5`, want: 500 * time.Millisecond},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(test.input), &d))
			assert.Equal(t, test.want, d.Duration())
		})
	}
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "1m30s", Duration(90*time.Second).String())
}
