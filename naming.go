package kubectl

import (
	"strings"
	"unicode"
)

// CamelToSnake converts a camelCase identifier to snake_case.
// An uppercase run followed by a lowercase letter keeps the run together, so
// "APIVersion" becomes "api_version" and "restartPolicy" becomes
// "restart_policy".
func CamelToSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (nextIsLower && prev != '_') {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// SnakeToCamel converts a snake_case identifier to camelCase. The first
// segment is kept as-is; every following segment is capitalized with the
// remainder lowered, mirroring Python's str.title() per segment.
func SnakeToCamel(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) == 1 {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(strings.ToLower(string(r[1:])))
	}
	return b.String()
}

// CamelToSnakeMap returns a copy of m with every string key rewritten to
// snake_case, recursing through nested maps and slices. Values that are not
// maps or slices are carried over untouched.
func CamelToSnakeMap(m map[string]any) map[string]any {
	return convertKeys(m, CamelToSnake, nil).(map[string]any)
}

// SnakeToCamelMap returns a copy of m with every string key rewritten to
// camelCase, recursing through nested maps and slices. Values that are not
// maps or slices are carried over untouched.
func SnakeToCamelMap(m map[string]any) map[string]any {
	return convertKeys(m, SnakeToCamel, nil).(map[string]any)
}

// requestOpaqueKeys marks subtrees whose keys are user data rather than API
// field names when preparing a request body. ConfigMap and Secret payload
// keys must reach the server verbatim.
var requestOpaqueKeys = map[string]bool{
	"data": true,
}

// resultOpaqueKeys marks subtrees kept verbatim when converting a server
// response to snake_case. Annotation and label keys are user data.
var resultOpaqueKeys = map[string]bool{
	"data":        true,
	"annotations": true,
	"labels":      true,
}

// prepareBody rewrites a request body's keys to the camelCase form the API
// server expects. Keys that are already camelCase pass through unchanged, so
// manifests decoded from YAML need no special handling.
func prepareBody(body map[string]any) map[string]any {
	return convertKeys(body, SnakeToCamel, requestOpaqueKeys).(map[string]any)
}

// resultBody rewrites a server response's keys to the snake_case convention
// this package presents to callers.
func resultBody(body map[string]any) map[string]any {
	return convertKeys(body, CamelToSnake, resultOpaqueKeys).(map[string]any)
}

func convertKeys(value any, convert func(string) string, opaque map[string]bool) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if opaque[key] {
				out[convert(key)] = val
				continue
			}
			out[convert(key)] = convertKeys(val, convert, opaque)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = convertKeys(item, convert, opaque)
		}
		return out
	default:
		return value
	}
}
