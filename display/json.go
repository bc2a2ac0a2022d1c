package display

import "encoding/json"

// MarshalJSON marshals v, indented when pretty is set
func MarshalJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
