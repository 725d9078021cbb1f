package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSuffix marks schema documents inside the schema directory.
const FileSuffix = "_schema.json"

var (
	// ErrDirectoryNotFound is returned when the schema directory does not exist.
	ErrDirectoryNotFound = errors.New("schema directory not found")
	// ErrNoSchemaFiles is returned when the directory holds no schema documents.
	ErrNoSchemaFiles = errors.New("no schema files found")
	// ErrMalformedSchema is matched by every *MalformedError.
	ErrMalformedSchema = errors.New("malformed schema")
)

// MalformedError reports a schema file that is not valid JSON.
type MalformedError struct {
	File string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("invalid JSON format in %s: %v", e.File, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedSchema) hold.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformedSchema }

// Load reads every *_schema.json file in dir in lexical file-name order.
// One malformed file fails the whole load.
func Load(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("read schema directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), FileSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSchemaFiles, dir)
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		doc, err := Decode(raw)
		if err != nil {
			return nil, &MalformedError{File: name, Err: err}
		}
		doc.File = name
		docs = append(docs, doc)
	}
	return docs, nil
}

// ModelNames returns the model names declared across docs, without duplicates,
// in document order.
func ModelNames(docs []Document) []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range docs {
		for _, app := range d.Apps() {
			for _, m := range app.Models {
				if m.ModelName == "" || seen[m.ModelName] {
					continue
				}
				seen[m.ModelName] = true
				names = append(names, m.ModelName)
			}
		}
	}
	return names
}
