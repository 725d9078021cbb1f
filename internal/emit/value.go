package emit

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
)

var intLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// RenderValue renders an attribute value of the given field type as a Python
// literal suitable for a keyword argument.
func RenderValue(catalog *fieldtype.Catalog, fieldType, key string, v any) string {
	kind := catalog.OptionKind(fieldType, key)
	if s, ok := v.(string); ok {
		return renderString(kind, s)
	}
	return pyLiteral(v)
}

func renderString(kind fieldtype.OptionKind, s string) string {
	switch kind {
	case fieldtype.KindSymbol:
		s = strings.TrimSpace(s)
		if s == "" {
			return pyString(s)
		}
		if !strings.Contains(s, ".") {
			return "models." + s
		}
		return s
	case fieldtype.KindInt:
		if t := strings.TrimSpace(s); intLiteral.MatchString(t) {
			return t
		}
	case fieldtype.KindBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return "True"
		case "false":
			return "False"
		}
	}
	return pyString(s)
}

// pyLiteral renders a decoded JSON value.
func pyLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return pyString(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = pyLiteral(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = pyString(k) + ": " + pyLiteral(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return pyString(fmt.Sprint(x))
	}
}

// pyString renders a double-quoted Python string literal.
func pyString(s string) string {
	return strconv.Quote(s)
}

// pyList renders names as a Python list of single-quoted strings.
func pyList(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		n = strings.ReplaceAll(n, `\`, `\\`)
		n = strings.ReplaceAll(n, `'`, `\'`)
		parts[i] = "'" + n + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
