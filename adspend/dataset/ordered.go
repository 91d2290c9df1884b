package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeObject decodes a JSON object keeping track of the order in which keys appear in the document.
// Duplicated keys keep their first position and their last value.
func decodeObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	token, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", token)
	}

	keys := make([]string, 0)
	values := make(map[string]json.RawMessage)
	for dec.More() {
		token, err = dec.Token()
		if err != nil {
			return nil, nil, err
		}

		key, ok := token.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", token)
		}

		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("error decoding value for key %q: %w", key, err)
		}

		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	if _, err = dec.Token(); err != nil { // closing brace
		return nil, nil, err
	}
	return keys, values, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
