package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyValue_JSON(t *testing.T) {
	t.Run("marshals bare scalars", func(t *testing.T) {
		m := map[string]PropertyValue{
			"vendor": StringValue("Jama"),
			"score":  NumberValue(4.5),
			"active": BoolValue(true),
		}
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"vendor":"Jama","score":4.5,"active":true}`, string(data))
	})

	t.Run("unmarshals scalars with kinds", func(t *testing.T) {
		var m map[string]PropertyValue
		require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":2,"c":false}`), &m))

		assert.Equal(t, KindString, m["a"].Kind())
		assert.Equal(t, "x", m["a"].String())
		assert.Equal(t, KindNumber, m["b"].Kind())
		assert.Equal(t, 2.0, m["b"].Number())
		assert.Equal(t, KindBool, m["c"].Kind())
		assert.False(t, m["c"].Bool())
	})

	t.Run("rejects non-scalar values", func(t *testing.T) {
		var v PropertyValue
		require.ErrorIs(t, json.Unmarshal([]byte(`["a"]`), &v), ErrInvalidInput)
		require.ErrorIs(t, json.Unmarshal([]byte(`{"k":1}`), &v), ErrInvalidInput)
		require.ErrorIs(t, json.Unmarshal([]byte(`null`), &v), ErrInvalidInput)
	})

	t.Run("round trips", func(t *testing.T) {
		for _, v := range []PropertyValue{StringValue("x"), NumberValue(1.25), BoolValue(true)} {
			data, err := json.Marshal(v)
			require.NoError(t, err)
			var back PropertyValue
			require.NoError(t, json.Unmarshal(data, &back))
			assert.True(t, v.Equal(back))
		}
	})
}

func TestCanonicalEntity_Labels(t *testing.T) {
	var e CanonicalEntity

	assert.Empty(t, e.Labels())
	assert.False(t, e.HasLabel("Industry"))

	e.AddLabel("Tool")
	e.AddLabel("Industry")
	e.AddLabel("Tool") // duplicate is a no-op

	assert.Equal(t, []string{"Industry", "Tool"}, e.Labels())
	assert.True(t, e.HasLabel("Tool"))

	e.SetLabels("Concept")
	assert.Equal(t, []string{"Concept"}, e.Labels())
	assert.False(t, e.HasLabel("Tool"))
}
