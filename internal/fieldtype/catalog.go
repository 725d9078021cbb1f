// Package fieldtype holds the catalogue of Django model field types the
// generator understands.
//
// The catalogue is a static table. The emitters consult it to decide how an
// attribute value is rendered, the validator derives its field-type
// constraints from it, and the authoring page receives its options document.
package fieldtype

import "strconv"

// OptionKind classifies how an option value is rendered as a Python literal.
type OptionKind int

const (
	KindAny OptionKind = iota
	KindString
	KindInt
	KindBool
	KindSymbol
)

// String returns the kind name used in error messages.
func (k OptionKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindSymbol:
		return "symbol"
	default:
		return "any"
	}
}

// Required is the options-document value of an option without a default.
const Required = "required"

// Option describes one constructor keyword argument of a field type.
type Option struct {
	Name     string
	Kind     OptionKind
	Required bool
	Default  any // nil when the option has no default
}

// FieldType describes a single Django field constructor.
type FieldType struct {
	Name       string
	Relational bool     // ForeignKey, OneToOneField, ManyToManyField
	Many       bool     // relation yields a collection
	DartType   string   // empty for relational types, derived from "to"
	Options    []Option // type-specific options in declaration order
}

// Option returns the named option, looking at the type's own options first and
// then at the options every field accepts.
func (ft *FieldType) Option(name string) (Option, bool) {
	for _, o := range ft.Options {
		if o.Name == name {
			return o, true
		}
	}
	for _, o := range commonOptions {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// RequiredOptions returns the names of options that have no default.
func (ft *FieldType) RequiredOptions() []string {
	var names []string
	for _, o := range ft.Options {
		if o.Required {
			names = append(names, o.Name)
		}
	}
	return names
}

// Catalog holds field types keyed by name. It is populated once and is safe
// for concurrent read access.
type Catalog struct {
	types map[string]*FieldType
	order []string
}

// NewCatalog creates an empty catalogue.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*FieldType)}
}

// Register adds a field type to the catalogue.
func (c *Catalog) Register(ft *FieldType) {
	if _, ok := c.types[ft.Name]; !ok {
		c.order = append(c.order, ft.Name)
	}
	c.types[ft.Name] = ft
}

// Lookup returns the named field type.
func (c *Catalog) Lookup(name string) (*FieldType, bool) {
	ft, ok := c.types[name]
	return ft, ok
}

// Names returns all field type names in registration order.
func (c *Catalog) Names() []string {
	return c.order
}

const onDelete = "on_delete"

// OptionKind returns how the named option of the named field type is rendered.
// on_delete is a symbol on every relational type, including those that do not
// list it. Unknown field types and options fall back to the common options and
// then to KindAny.
func (c *Catalog) OptionKind(fieldType, option string) OptionKind {
	if ft, ok := c.types[fieldType]; ok {
		if o, ok := ft.Option(option); ok {
			return o.Kind
		}
		if ft.Relational && option == onDelete {
			return KindSymbol
		}
		return KindAny
	}
	for _, o := range commonOptions {
		if o.Name == option {
			return o.Kind
		}
	}
	return KindAny
}

// Options returns the options document served to the authoring page:
// field type name to option name to default value, with "required" for
// options without a default and booleans rendered as "true"/"false".
func (c *Catalog) Options() map[string]map[string]any {
	doc := make(map[string]map[string]any, len(c.types))
	for _, name := range c.order {
		ft := c.types[name]
		opts := make(map[string]any, len(ft.Options)+len(commonOptions))
		for _, o := range commonOptions {
			opts[o.Name] = documentValue(o)
		}
		for _, o := range ft.Options {
			opts[o.Name] = documentValue(o)
		}
		doc[name] = opts
	}
	return doc
}

func documentValue(o Option) any {
	if o.Required {
		return Required
	}
	switch v := o.Default.(type) {
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return v
	}
}
