// ABOUTME: Helpers for walking loosely typed record values
// ABOUTME: Records decoded from JSON hold []interface{} and map[string]interface{}
package app

import "encoding/json"

// toList returns v as a JSON array. Values built in Go rather than decoded
// from JSON are normalised through a JSON round trip.
func toList(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	}
	var out []interface{}
	if raw, err := json.Marshal(v); err == nil {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// toMap returns v as a JSON object, or nil if it is not one.
func toMap(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return t
	}
	var out map[string]interface{}
	if raw, err := json.Marshal(v); err == nil {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}
