package vectordb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDistanceText(t *testing.T) {
	var doc struct {
		Size     uint64   `yaml:"size"`
		Distance Distance `yaml:"distance"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("size: 4\ndistance: dot\n"), &doc))
	assert.Equal(t, Dot, doc.Distance)

	require.NoError(t, yaml.Unmarshal([]byte("distance: Manhattan\n"), &doc))
	assert.Equal(t, Manhattan, doc.Distance)

	assert.Error(t, yaml.Unmarshal([]byte("distance: hamming\n"), &doc))

	out, err := json.Marshal(VectorParams{Size: 4, Distance: Euclid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Size": 4, "Distance": "euclid", "OnDisk": null}`, string(out))

	_, err = DistanceUnknown.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
