package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

// JSONSchemaExtend constrains fieldType to the catalogue names.
func (FieldSchema) JSONSchemaExtend(s *jsonschema.Schema) {
	prop, ok := s.Properties.Get("fieldType")
	if !ok {
		return
	}
	for _, n := range fieldtype.Default.Names() {
		prop.Enum = append(prop.Enum, n)
	}
}

// JSONSchema reflects the JSON Schema of a document kind. Definitions are
// inlined so the result is self-contained.
func JSONSchema(kind Kind) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	var s *jsonschema.Schema
	if kind == KindProject {
		s = r.Reflect(&ProjectSchema{})
		s.Title = "Project schema"
	} else {
		s = r.Reflect(&AppSchema{})
		s.Title = "App schema"
	}
	s.Version = draft07
	return s
}

var compiled struct {
	once    sync.Once
	project *gojsonschema.Schema
	app     *gojsonschema.Schema
	err     error
}

func structureSchema(kind Kind) (*gojsonschema.Schema, error) {
	compiled.once.Do(func() {
		compiled.project, compiled.err = compileSchema(KindProject)
		if compiled.err != nil {
			return
		}
		compiled.app, compiled.err = compileSchema(KindApp)
	})
	if compiled.err != nil {
		return nil, compiled.err
	}
	if kind == KindProject {
		return compiled.project, nil
	}
	return compiled.app, nil
}

func compileSchema(kind Kind) (*gojsonschema.Schema, error) {
	b, err := json.Marshal(JSONSchema(kind))
	if err != nil {
		return nil, fmt.Errorf("encode %s schema: %w", kind, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}
	return s, nil
}

// CheckStructure validates raw JSON against the JSON Schema of kind. The error
// is non-nil only when validation itself could not run.
func CheckStructure(kind Kind, raw []byte) ([]Violation, error) {
	s, err := structureSchema(kind)
	if err != nil {
		return nil, err
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate %s document: %w", kind, err)
	}
	if res.Valid() {
		return nil, nil
	}
	out := make([]Violation, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, Violation{Path: e.Field(), Message: e.Description()})
	}
	return out, nil
}
