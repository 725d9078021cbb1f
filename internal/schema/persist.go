package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matthewbaird/appbuilder/internal/fsutil"
)

// ErrEmptySlug is returned when a document name slugifies to nothing.
var ErrEmptySlug = errors.New("document name has no usable characters")

// Save writes doc to dir as <slug>_schema.json, creating dir when absent and
// replacing an existing file. The document bytes are re-indented but keys
// and values are kept verbatim. It returns the file name written.
func Save(dir string, doc Document) (string, error) {
	name, err := FileName(doc.Name())
	if err != nil {
		return "", err
	}
	raw, err := doc.encode()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "    "); err != nil {
		return "", fmt.Errorf("indent %s: %w", doc.Name(), err)
	}
	buf.WriteByte('\n')

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create schema directory: %w", err)
	}
	if err := fsutil.WriteFile(filepath.Join(dir, name), buf.Bytes()); err != nil {
		return "", err
	}
	return name, nil
}
