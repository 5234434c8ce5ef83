package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetsim/core/model"
)

func TestEncodeDecodeLayout(t *testing.T) {
	v := model.StateView{
		FreeVehicles: 2,
		Queued:       []model.Job{{ID: "1", Name: "a", ProcessingTime: 1, Flexibility: model.Strict}},
	}
	data, err := Encode(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"freeVehicles":2`)
	assert.Contains(t, string(data), `"processingTime":1`)
	assert.Contains(t, string(data), `"ongoing":[]`)

	got, err := Decode("test", data)
	require.NoError(t, err)
	assert.Equal(t, v.Clone(), got)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode("file.json", []byte("{not json"))
	var derr *DeserializationError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "file.json", derr.Source)
	assert.NotNil(t, errors.Unwrap(err))
}
