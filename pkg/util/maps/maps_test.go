package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	m := map[string]interface{}{
		"str": "foo",
		"num": 1,
		"obj": map[string]interface{}{
			"bool":  false,
			"array": []string{"toto", "tutu", "tata"},
			"null":  nil,
		},
	}
	str := Get(m, "str")
	assert.Equal(t, "foo", str)

	bool := Get(m, "obj.bool")
	assert.Equal(t, false, bool)

	null := Get(m, "obj.bool.null")
	assert.Nil(t, null)
}

func TestLookup(t *testing.T) {
	m := map[string]interface{}{
		"obj": map[string]interface{}{
			"null": nil,
		},
	}
	v, ok := Lookup(m, "obj.null")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = Lookup(m, "obj.missing")
	assert.False(t, ok)

	_, ok = Lookup(m, "obj.null.deeper")
	assert.False(t, ok)
}

type glossaryItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var g []glossaryItem
		err := DecodeJSON([]interface{}{
			map[string]interface{}{"term": "arbitration", "definition": "out of court"},
		}, &g)
		require.NoError(t, err)
		assert.Equal(t, []glossaryItem{{Term: "arbitration", Definition: "out of court"}}, g)
	})

	t.Run("unknown_key", func(t *testing.T) {
		var g glossaryItem
		err := DecodeJSON(map[string]interface{}{"term": "a", "extra": 1}, &g)
		require.Error(t, err)
	})
}
