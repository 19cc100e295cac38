package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries an anti-forgery token under the input name the backend
// expects ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names are
// ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns fields ordered by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if len(clean) == 0 {
		return nil
	}
	names := lo.Keys(clean)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) HiddenField {
		return HiddenField{Name: name, Value: clean[name]}
	})
}
