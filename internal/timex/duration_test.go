package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"duration string", `"3m"`, 3 * time.Minute, false},
		{"compound string", `"1h30m"`, 90 * time.Minute, false},
		{"nanoseconds number", `90000000000`, 90 * time.Second, false},
		{"bad string", `"soon"`, 0, true},
		{"bad type", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}

func TestDuration_RoundTrip(t *testing.T) {
	in := Duration{Duration: 3 * time.Minute}
	out, err := json.Marshal(in)
	require.NoError(t, err)

	var back Duration
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, in.Duration, back.Duration)
}
