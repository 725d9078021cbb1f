// Package schema loads, validates and persists the JSON documents that
// describe projects, apps, models and fields.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind distinguishes the two document shapes.
type Kind int

const (
	KindApp Kind = iota
	KindProject
)

// String returns the kind name used in URLs and messages.
func (k Kind) String() string {
	if k == KindProject {
		return "project"
	}
	return "app"
}

// ParseKind parses "app" or "project".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "app":
		return KindApp, nil
	case "project":
		return KindProject, nil
	}
	return KindApp, fmt.Errorf("unknown document kind %q", s)
}

// ProjectSchema describes a project and the apps it contains.
type ProjectSchema struct {
	ProjectName string      `json:"projectName" jsonschema:"minLength=1"`
	Apps        []AppSchema `json:"apps"`
}

// AppSchema describes one app and its models.
type AppSchema struct {
	AppName string        `json:"appName" jsonschema:"minLength=1"`
	Models  []ModelSchema `json:"models"`
}

// ModelSchema describes one model and its fields in declaration order.
type ModelSchema struct {
	ModelName string        `json:"modelName" jsonschema:"minLength=1"`
	Fields    []FieldSchema `json:"fields"`
}

// FieldSchema describes one model field.
type FieldSchema struct {
	FieldName  string     `json:"fieldName" jsonschema:"minLength=1"`
	FieldType  string     `json:"fieldType"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Names returns the field names of the model in declaration order.
func (m ModelSchema) Names() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.FieldName
	}
	return names
}

// Attribute is one key/value pair of a field's attributes.
type Attribute struct {
	Key   string
	Value any
}

// Attributes is a string-keyed map of JSON values that remembers the order in
// which keys appeared in the document.
type Attributes struct {
	pairs *orderedmap.OrderedMap[string, any]
}

// NewAttributes builds attributes from pairs in the given order.
func NewAttributes(pairs ...Attribute) Attributes {
	var a Attributes
	for _, p := range pairs {
		a.Set(p.Key, p.Value)
	}
	return a
}

// Set stores value under key. A new key is appended; an existing key keeps its
// position.
func (a *Attributes) Set(key string, value any) {
	if a.pairs == nil {
		a.pairs = orderedmap.New[string, any]()
	}
	a.pairs.Set(key, value)
}

// Get returns the value stored under key.
func (a Attributes) Get(key string) (any, bool) {
	if a.pairs == nil {
		return nil, false
	}
	return a.pairs.Get(key)
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	if a.pairs == nil {
		return 0
	}
	return a.pairs.Len()
}

// Pairs returns the attributes in document order.
func (a Attributes) Pairs() []Attribute {
	if a.pairs == nil {
		return nil
	}
	out := make([]Attribute, 0, a.pairs.Len())
	for p := a.pairs.Oldest(); p != nil; p = p.Next() {
		out = append(out, Attribute{Key: p.Key, Value: p.Value})
	}
	return out
}

// Keys returns the attribute keys in document order.
func (a Attributes) Keys() []string {
	pairs := a.Pairs()
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON encodes the attributes as an object in document order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	if a.pairs == nil {
		return []byte("{}"), nil
	}
	return a.pairs.MarshalJSON()
}

// UnmarshalJSON decodes an object, keeping key order. null decodes as empty.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		a.pairs = nil
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("attributes must be a JSON object")
	}
	m := orderedmap.New[string, any]()
	if err := m.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	a.pairs = m
	return nil
}

// JSONSchema describes attributes as a free-form object.
func (Attributes) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

// Document is one loaded or posted schema document.
type Document struct {
	File    string // base file name, empty for posted documents
	Raw     []byte // bytes as read or received
	Kind    Kind
	Project *ProjectSchema
	App     *AppSchema
}

// Name returns the project name or app name of the document.
func (d Document) Name() string {
	if d.Kind == KindProject && d.Project != nil {
		return d.Project.ProjectName
	}
	if d.App != nil {
		return d.App.AppName
	}
	return ""
}

// Apps returns the apps described by the document: the project's apps, or the
// single app of an app document.
func (d Document) Apps() []AppSchema {
	if d.Kind == KindProject {
		if d.Project == nil {
			return nil
		}
		return d.Project.Apps
	}
	if d.App == nil {
		return nil
	}
	return []AppSchema{*d.App}
}

// Decode parses one document. A top-level object with a projectName or apps
// key is a project document; any other object is an app document.
func Decode(raw []byte) (Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Document{}, err
	}
	if probe == nil {
		return Document{}, errors.New("expected a JSON object")
	}
	doc := Document{Raw: raw}
	_, hasProject := probe["projectName"]
	_, hasApps := probe["apps"]
	if hasProject || hasApps {
		doc.Kind = KindProject
		doc.Project = &ProjectSchema{}
		if err := json.Unmarshal(raw, doc.Project); err != nil {
			return Document{}, err
		}
		return doc, nil
	}
	doc.Kind = KindApp
	doc.App = &AppSchema{}
	if err := json.Unmarshal(raw, doc.App); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DecodeBody parses a request body holding one document or a JSON array of
// documents.
func DecodeBody(raw []byte) ([]Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, errors.New("empty document list")
		}
		docs := make([]Document, 0, len(items))
		for i, item := range items {
			doc, err := Decode(item)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	}
	doc, err := Decode(trimmed)
	if err != nil {
		return nil, err
	}
	return []Document{doc}, nil
}

// encode returns the bytes validated for the document: Raw when present,
// otherwise the JSON encoding of the decoded schema.
func (d Document) encode() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	if d.Kind == KindProject {
		return json.Marshal(d.Project)
	}
	return json.Marshal(d.App)
}
