package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericInputAcceptsNumbersAndStrings(t *testing.T) {
	var req CreateGlucoseRecordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"glucose_level": 120, "insulin_units": "4.5", "hba1c": null}`), &req))

	assert.Equal(t, NumericInput("120"), req.GlucoseLevel)
	require.NotNil(t, req.InsulinUnits)
	assert.Equal(t, "4.5", *req.InsulinUnits.Ptr())
	assert.Nil(t, req.HbA1c)
}

func TestNumericInputKeepsGarbageForValidation(t *testing.T) {
	var req CreateGlucoseRecordRequest
	require.NoError(t, json.Unmarshal([]byte(`{"glucose_level": "abc"}`), &req))
	assert.Equal(t, NumericInput("abc"), req.GlucoseLevel)
}
