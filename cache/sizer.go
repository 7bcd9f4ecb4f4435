package cache

import (
	"encoding/json"
	"fmt"
)

// DefaultSizer approximates the byte footprint of a value by the length of
// a canonical serialized form. Strings and byte slices short-circuit to
// their own length; everything else is JSON-encoded. Text lengths are
// doubled to account for wide in-memory encodings of string data.
//
// The estimate is intentionally rough: the budget only needs a number that
// grows with the payload, not an exact heap measurement.
func DefaultSizer[V any](v V) int {
	switch x := any(v).(type) {
	case string:
		return len(x) * 2
	case []byte:
		return len(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable payloads (channels, funcs) still get charged
		// something proportional to their printed form.
		return len(fmt.Sprintf("%v", v)) * 2
	}
	return len(b) * 2
}
