package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"calendar date", `"2025-10-01"`, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 truncated", `"2025-10-01T18:30:00+02:00"`, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty", `""`, time.Time{}, false},
		{"garbage", `"yesterday"`, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: NewDate(time.Date(2025, 2, 3, 23, 59, 0, 0, time.UTC))})

	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2025-02-03","unset":null}`, string(out))
}

func TestGroup_IsMember(t *testing.T) {
	g := Group{Members: []string{"1", "2"}}
	assert.True(t, g.IsMember("2"))
	assert.False(t, g.IsMember("3"))
}
