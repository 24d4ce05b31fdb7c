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
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string minutes", in: `"15m"`, want: 15 * time.Minute},
		{name: "string hours", in: `"168h"`, want: 7 * 24 * time.Hour},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"fortnight"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
		{name: "not json", in: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
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
	b, err := json.Marshal(Duration{Duration: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, `"1h0m0s"`, string(b))
}
