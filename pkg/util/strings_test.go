package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAsInteger(t *testing.T) {
	for _, in := range []any{7, int32(7), int64(7), uint32(7), float32(7), 7.0, " 7 "} {
		v, err := GetAsInteger(in)
		require.NoError(t, err, "%T", in)
		assert.Equal(t, 7, v)
	}

	for _, in := range []any{nil, 7.5, "seven", true, int64(1 << 40), 1e12} {
		_, err := GetAsInteger(in)
		assert.Error(t, err, "%v", in)
	}
}

func TestGetAsFloat(t *testing.T) {
	for _, in := range []any{2.5, float32(2.5), "2.5"} {
		v, err := GetAsFloat(in)
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
	}
	v, err := GetAsFloat(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = GetAsFloat("wide")
	assert.Error(t, err)
	_, err = GetAsFloat(nil)
	assert.Error(t, err)
	_, err = GetAsFloat([]int{1})
	assert.Error(t, err)
}

func TestGetAsString(t *testing.T) {
	for in, want := range map[any]string{"x": "x", 3: "3", 2.5: "2.5", true: "true", uint32(9): "9"} {
		v, err := GetAsString(in)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err := GetAsString(nil)
	assert.Error(t, err)
}
