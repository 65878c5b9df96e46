package domain

import "encoding/json"

// APIResponse is the top level of a decoded API response. Values are kept
// raw and decoded only by the component that needs them.
type APIResponse map[string]json.RawMessage

// Has reports whether the response has the given top-level field.
func (r APIResponse) Has(field string) bool {
	_, ok := r[field]
	return ok
}
