package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	type doc struct {
		Interval Duration `json:"interval"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"interval":"30s"}`), &d))
	assert.Equal(t, 30*time.Second, d.Interval.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"interval":5000000000}`), &d))
	assert.Equal(t, 5*time.Second, d.Interval.Duration)

	err := json.Unmarshal([]byte(`{"interval":"nonsense"}`), &d)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"interval":true}`), &d)
	assert.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
