package shared

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(4)
	require.NoError(t, err)
	assert.Len(t, s, 8)

	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(8)
	require.NoError(t, err)
	b, err := MakeRandHexString(8)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
