package model

import "encoding/json"

// Fields is the raw, schemaless form of a content document as stored.
type Fields = map[string]interface{}

// CloneFields deep-copies nested maps and lists so callers can mutate the result freely.
func CloneFields(src Fields) Fields {
	if src == nil {
		return nil
	}
	out := make(Fields, len(src))
	for k, v := range src {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies maps and slices produced by JSON, YAML or store decoding.
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CloneFields(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// DecodeDefaults fills dst, a typed document, with the defaults of d.
func DecodeDefaults(d Domain, dst interface{}) error {
	raw, err := json.Marshal(Defaults(d))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
