package emit

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

// DartFileName returns the file name of a model's Dart class.
func DartFileName(modelName string) string {
	return strings.ToLower(modelName) + ".dart"
}

// DartType maps a field to its Dart type. Relations resolve to the target
// model's class; unknown field types become dynamic.
func DartType(catalog *fieldtype.Catalog, f schema.FieldSchema) string {
	ft, ok := catalog.Lookup(f.FieldType)
	if !ok {
		return "dynamic"
	}
	if !ft.Relational {
		return ft.DartType
	}
	target := "dynamic"
	if v, ok := f.Attributes.Get("to"); ok {
		if s, ok := v.(string); ok && s != "" {
			target = s[strings.LastIndex(s, ".")+1:]
		}
	}
	if ft.Many {
		return "List<" + target + ">"
	}
	return target
}

// DartModel renders an immutable Dart class with a constructor, toJson and
// fromJson for one model.
func DartModel(m schema.ModelSchema) (string, error) {
	if m.ModelName == "" {
		return "", fmt.Errorf("%w: model", ErrMissingName)
	}
	for i, f := range m.Fields {
		if f.FieldName == "" {
			return "", fmt.Errorf("%w: field %d of model %s", ErrMissingName, i, m.ModelName)
		}
	}

	var w cw
	w.line("// Model class for %s", m.ModelName)
	w.line("")
	w.line("class %s {", m.ModelName)
	for _, f := range m.Fields {
		w.line("  final %s %s;", DartType(fieldtype.Default, f), f.FieldName)
	}
	if len(m.Fields) > 0 {
		w.line("")
	}

	if len(m.Fields) == 0 {
		w.line("  %s();", m.ModelName)
	} else {
		w.line("  %s({", m.ModelName)
		for _, f := range m.Fields {
			w.line("    required this.%s,", f.FieldName)
		}
		w.line("  });")
	}
	w.line("")

	w.line("  Map<String, dynamic> toJson() => {")
	for _, f := range m.Fields {
		w.line("        '%s': %s,", f.FieldName, f.FieldName)
	}
	w.line("      };")
	w.line("")

	w.line("  factory %s.fromJson(Map<String, dynamic> json) => %s(", m.ModelName, m.ModelName)
	for _, f := range m.Fields {
		w.line("        %s: json['%s'] as %s,", f.FieldName, f.FieldName, DartType(fieldtype.Default, f))
	}
	w.line("      );")
	w.line("}")
	return w.String(), nil
}
