package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_ValueScanRoundTrip(t *testing.T) {
	original := Payload{
		Pantry: &PantryPayload{ItemName: "milk", DaysLeft: 2},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded Payload
	require.NoError(t, decoded.Scan(value))

	require.NotNil(t, decoded.Pantry)
	assert.Equal(t, "milk", decoded.Pantry.ItemName)
	assert.Equal(t, 2, decoded.Pantry.DaysLeft)
	assert.Nil(t, decoded.Chef)
}

func TestPayload_ScanNilAndEmpty(t *testing.T) {
	var p Payload
	require.NoError(t, p.Scan(nil))
	assert.Nil(t, p.Pantry)

	require.NoError(t, p.Scan([]byte{}))
	require.NoError(t, p.Scan("{}"))
}

func TestPayload_ScanUnsupportedType(t *testing.T) {
	var p Payload
	assert.Error(t, p.Scan(42))
}
