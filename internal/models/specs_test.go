package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecMapScanValue(t *testing.T) {
	m := SpecMap{"ram": "32GB", "cores": float64(8)}

	v, err := m.Value()
	require.NoError(t, err)

	var back SpecMap
	require.NoError(t, back.Scan(v))
	require.Equal(t, m, back)
}

func TestSpecMapNil(t *testing.T) {
	var m SpecMap
	v, err := m.Value()
	require.NoError(t, err)
	require.Nil(t, v)

	var back SpecMap
	require.NoError(t, back.Scan(nil))
	require.Nil(t, back)
}

func TestSpecMapScanRejectsOddTypes(t *testing.T) {
	var m SpecMap
	require.Error(t, m.Scan(42))
}
