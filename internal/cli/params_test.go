package cli

import (
	"encoding/json"
	"testing"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	t.Run("no pairs gives nil params", func(t *testing.T) {
		params, err := parseParams(nil)
		require.NoError(t, err)
		assert.Nil(t, params)
	})

	t.Run("json values come through typed", func(t *testing.T) {
		params, err := parseParams([]string{`name="ada"`, "age=36", "admin=true", "tags=[1,2]"})
		require.NoError(t, err)
		require.Len(t, params, 4)
		assert.Equal(t, protocol.Field{Key: "name", Value: "ada"}, params[0])
		assert.Equal(t, protocol.Field{Key: "age", Value: float64(36)}, params[1])
		assert.Equal(t, protocol.Field{Key: "admin", Value: true}, params[2])
		assert.Equal(t, protocol.Field{Key: "tags", Value: []any{float64(1), float64(2)}}, params[3])
	})

	t.Run("plain strings need no quoting", func(t *testing.T) {
		params, err := parseParams([]string{"greeting=hello there"})
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, protocol.Field{Key: "greeting", Value: "hello there"}, params[0])
	})

	t.Run("order and duplicates survive to the wire", func(t *testing.T) {
		params, err := parseParams([]string{"k=1", "k=2", "a=3"})
		require.NoError(t, err)

		data, err := json.Marshal(params)
		require.NoError(t, err)
		assert.Equal(t, `{"k":1,"k":2,"a":3}`, string(data))
	})

	t.Run("missing equals sign is rejected", func(t *testing.T) {
		_, err := parseParams([]string{"nonsense"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonsense")
	})

	t.Run("empty value falls back to the empty string", func(t *testing.T) {
		params, err := parseParams([]string{"note="})
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, protocol.Field{Key: "note", Value: ""}, params[0])
	})
}
