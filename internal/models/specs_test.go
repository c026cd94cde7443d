package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificationsRoundTripPreservesOrder(t *testing.T) {
	in := `{"battery_life":"120 minutes","suction_power":"2000Pa","weight_kg":3.2,"wifi":true}`

	var specs Specifications
	require.NoError(t, json.Unmarshal([]byte(in), &specs))

	require.Len(t, specs, 4)
	assert.Equal(t, "battery_life", specs[0].Key)
	assert.Equal(t, "suction_power", specs[1].Key)
	assert.Equal(t, "weight_kg", specs[2].Key)
	assert.Equal(t, "wifi", specs[3].Key)

	out, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.Equal(t, in, string(out)) // byte-for-byte: order survives
}

func TestSpecificationsValueKinds(t *testing.T) {
	var specs Specifications
	require.NoError(t, json.Unmarshal([]byte(`{"a":"text","b":42,"c":false}`), &specs))

	a, ok := specs.Get("a")
	require.True(t, ok)
	assert.Equal(t, SpecString, a.Kind)
	assert.Equal(t, "text", a.Str)

	b, ok := specs.Get("b")
	require.True(t, ok)
	assert.Equal(t, SpecNumber, b.Kind)
	assert.Equal(t, 42.0, b.Num)

	c, ok := specs.Get("c")
	require.True(t, ok)
	assert.Equal(t, SpecBool, c.Kind)
	assert.False(t, c.Bool)

	_, ok = specs.Get("missing")
	assert.False(t, ok)
}

func TestSpecificationsRejectNestedValues(t *testing.T) {
	var specs Specifications
	err := json.Unmarshal([]byte(`{"nested":{"a":1}}`), &specs)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`["not","an","object"]`), &specs)
	assert.Error(t, err)
}

func TestSpecificationsScanFromDatabase(t *testing.T) {
	var specs Specifications
	require.NoError(t, specs.Scan([]byte(`{"height":"45 cm"}`)))
	require.Len(t, specs, 1)
	assert.Equal(t, "height", specs[0].Key)

	require.NoError(t, specs.Scan(nil))
	assert.Empty(t, specs)
}

func TestShippingAddressScan(t *testing.T) {
	var addr ShippingAddress
	require.NoError(t, addr.Scan([]byte(`{"street":"1 Robot Way","city":"Springfield","state":"IL","zip":"62701","country":"US"}`)))
	assert.Equal(t, "Springfield", addr.City)
	assert.Equal(t, "US", addr.Country)

	val, err := addr.Value()
	require.NoError(t, err)
	assert.Contains(t, string(val.([]byte)), `"zip":"62701"`)
}

func TestEmptySpecificationsMarshalAsObject(t *testing.T) {
	out, err := json.Marshal(Specifications{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
