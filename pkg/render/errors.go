package render

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrorMapping splits an error payload into per-field and form-level messages.
type ErrorMapping struct {
	Fields map[validation.FieldID][]string
	Form   []string
}

// Results converts the mapping into one failing result per field, in display
// order, using the first message recorded for each field.
func (m ErrorMapping) Results() []validation.Result {
	var out []validation.Result
	for _, id := range validation.Fields {
		if msgs := m.Fields[id]; len(msgs) > 0 {
			out = append(out, validation.Fail(id, msgs[0]))
		}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// IssuesPayload keys failing results by field name, the shape the JSON API
// returns under "errors".
func IssuesPayload(results ...validation.Result) map[string][]string {
	out := map[string][]string{}
	for _, res := range results {
		if res.Valid || res.Message == "" {
			continue
		}
		key := string(res.Field)
		out[key] = append(out[key], res.Message)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MapErrorPayload resolves error paths onto contact fields. Keys may be bare
// names, page ids ("contact-email") or pointer-like paths ("/body/email",
// "$.payload.name"). Paths that name no field become form-level errors so
// messages are never lost.
func MapErrorPayload(payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[validation.FieldID][]string)}

	for _, rawPath := range sortedKeys(payload) {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		id, ok := resolveField(rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[id] = normalizeMessages(append(mapping.Fields[id], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolveField(raw string) (validation.FieldID, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := dropWrapperSegments(parsePathSegments(raw))
	if len(segments) == 0 {
		return "", false
	}
	return validation.ParseFieldID(segments[0])
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		return part, part != ""
	})
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
	"properties": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	out := lo.Uniq(lo.FilterMap(messages, func(message string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(message)
		return trimmed, trimmed != ""
	}))
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
