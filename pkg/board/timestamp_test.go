package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"RFC3339", `"2025-08-30T15:04:05Z"`, time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC), false},
		{"with offset", `"2025-08-30T15:04:05+09:00"`, time.Date(2025, 8, 30, 6, 4, 5, 0, time.UTC), false},
		{"microseconds without zone", `"2025-08-30T15:04:05.123456"`, time.Date(2025, 8, 30, 15, 4, 5, 123456000, time.UTC), false},
		{"without zone", `"2025-08-30T15:04:05"`, time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC), false},
		{"space separated", `"2025-08-30 15:04:05"`, time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC), false},
		{"date only", `"2025-08-30"`, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty", `""`, time.Time{}, false},
		{"invalid", `"yesterday"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Timestamp{Time: time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC)})
	assert.NoError(t, err)
	assert.Equal(t, `"2025-08-30T15:04:05Z"`, string(out))

	out, err = json.Marshal(Timestamp{})
	assert.NoError(t, err)
	assert.Equal(t, `null`, string(out))

	assert.Equal(t, "", Timestamp{}.String())
}
