package sections

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML accepts the same section list written as YAML. The document is
// converted to JSON and then checked exactly like Parse.
func ParseYAML(data []byte) (List, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{Index: -1, Msg: err.Error()}
	}
	if doc == nil {
		return List{}, nil
	}

	body, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return nil, &SyntaxError{Index: -1, Msg: err.Error()}
	}
	return Parse(body)
}

// jsonCompatible rewrites yaml.v3 maps with non-string keys so that
// encoding/json can marshal them.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	default:
		return v
	}
}
