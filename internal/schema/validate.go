package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
)

//go:embed schema.cue
var baseCUE string

// Violation is one invariant a document breaks.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Validator checks documents against the CUE constraints derived from a
// field-type catalogue. A cue.Context is not safe for concurrent use, so
// every check holds mu.
type Validator struct {
	mu      sync.Mutex
	project cue.Value
	app     cue.Value
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// NewValidator compiles the constraints for catalog.
func NewValidator(catalog *fieldtype.Catalog) (*Validator, error) {
	ctx := cuecontext.New()
	src := baseCUE + "\n" + catalogCUE(catalog)
	v := ctx.CompileString(src, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema constraints: %w", err)
	}
	return &Validator{
		project: v.LookupPath(cue.ParsePath("#Project")),
		app:     v.LookupPath(cue.ParsePath("#App")),
	}, nil
}

// Validate checks doc against the default catalogue.
func Validate(doc Document) []Violation {
	v, err := defaultValidatorFor()
	if err != nil {
		return []Violation{{Message: err.Error()}}
	}
	return v.Validate(doc)
}

// ValidateApp checks a single app against the default catalogue.
func ValidateApp(app AppSchema) []Violation {
	v, err := defaultValidatorFor()
	if err != nil {
		return []Violation{{Message: err.Error()}}
	}
	return v.ValidateApp(app)
}

func defaultValidatorFor() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator(fieldtype.Default)
	})
	return defaultValidator, defaultErr
}

// Validate checks a whole document. The decoded form is checked, so absent
// and null lists read as empty, the same as for ValidateApp.
func (v *Validator) Validate(doc Document) []Violation {
	if doc.Kind == KindProject && doc.Project != nil {
		p := *doc.Project
		apps := make([]AppSchema, len(p.Apps))
		for i, a := range p.Apps {
			apps[i] = withLists(a)
		}
		p.Apps = apps
		return v.checkValue(v.project, p, doc.File)
	}
	if doc.App == nil {
		return []Violation{{Message: "document has no app or project"}}
	}
	return v.checkValue(v.app, withLists(*doc.App), doc.File)
}

// ValidateApp checks one app.
func (v *Validator) ValidateApp(app AppSchema) []Violation {
	return v.checkValue(v.app, withLists(app), app.AppName)
}

// withLists returns a copy of app with nil model and field lists replaced by
// empty ones.
func withLists(app AppSchema) AppSchema {
	models := make([]ModelSchema, len(app.Models))
	for i, m := range app.Models {
		if m.Fields == nil {
			m.Fields = []FieldSchema{}
		}
		models[i] = m
	}
	app.Models = models
	return app
}

func (v *Validator) checkValue(def cue.Value, doc any, filename string) []Violation {
	raw, err := json.Marshal(doc)
	if err != nil {
		return []Violation{{Message: err.Error()}}
	}
	return v.check(def, raw, filename)
}

func (v *Validator) check(def cue.Value, raw []byte, filename string) []Violation {
	v.mu.Lock()
	defer v.mu.Unlock()

	data := def.Context().CompileBytes(raw, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return toViolations(err)
	}
	return toViolations(def.Unify(data).Validate(cue.Concrete(true)))
}

func toViolations(err error) []Violation {
	if err == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Violation
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(documentPath(e.Path()), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if strings.HasSuffix(path, "fieldType") && !strings.Contains(msg, "incomplete") {
			msg = "not a known field type"
		}
		key := path + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Violation{Path: path, Message: msg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// documentPath drops the definition selectors (#App, #Project) that lead the
// error path, leaving a path into the document itself.
func documentPath(sel []string) []string {
	for len(sel) > 0 && strings.HasPrefix(sel[0], "#") {
		sel = sel[1:]
	}
	return sel
}

// catalogCUE renders #FieldType and #Field for catalog.
func catalogCUE(catalog *fieldtype.Catalog) string {
	var b strings.Builder
	names := catalog.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	fmt.Fprintf(&b, "#FieldType: %s\n\n", strings.Join(quoted, " | "))

	b.WriteString("#Field: {\n")
	b.WriteString("\tfieldName: #Name\n")
	b.WriteString("\tfieldType: #FieldType\n")
	b.WriteString("\tattributes?: {...}\n")
	for _, n := range names {
		ft, _ := catalog.Lookup(n)
		required := ft.RequiredOptions()
		if len(required) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\tif fieldType == %s {\n", strconv.Quote(n))
		for _, opt := range required {
			o, _ := ft.Option(opt)
			fmt.Fprintf(&b, "\t\tattributes: %s: %s\n", opt, requiredConstraint(o))
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("\t...\n}\n")
	return b.String()
}

func requiredConstraint(o fieldtype.Option) string {
	switch o.Kind {
	case fieldtype.KindInt:
		if o.Name == "decimal_places" {
			return "#Natural"
		}
		return "#Count"
	case fieldtype.KindString, fieldtype.KindSymbol:
		return `string & !=""`
	default:
		return "_"
	}
}
