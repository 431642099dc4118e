package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liwenjun/go-jsonrpc/pkg/protocol"
)

// parseParams turns repeated key=value pairs into ordered request parameters.
// Values are decoded as JSON so numbers, booleans, nulls, arrays and objects
// come through typed; a value that does not parse is kept as a plain string.
func parseParams(pairs []string) (protocol.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(protocol.Params, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not of the form key=value", pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params = append(params, protocol.Field{Key: key, Value: value})
	}
	return params, nil
}
