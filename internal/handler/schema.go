package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

// maxSchemaBody bounds a posted schema document.
const maxSchemaBody = 4 << 20

// SchemaHandler serves the field-type catalogue and persists authored schema
// documents into the schema directory.
type SchemaHandler struct {
	catalog   *fieldtype.Catalog
	schemaDir string
	log       logrus.FieldLogger
}

// NewSchemaHandler creates a SchemaHandler writing into schemaDir.
func NewSchemaHandler(catalog *fieldtype.Catalog, schemaDir string, log logrus.FieldLogger) *SchemaHandler {
	return &SchemaHandler{catalog: catalog, schemaDir: schemaDir, log: log}
}

// FieldTypes returns {fieldType: {option: default or "required"}}.
// GET /api/field-types
func (h *SchemaHandler) FieldTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Options())
}

// Models returns the model names already declared in the schema directory,
// offered as relation targets by the authoring page. A missing or empty
// directory yields an empty list.
// GET /api/models
func (h *SchemaHandler) Models(w http.ResponseWriter, r *http.Request) {
	docs, err := schema.Load(h.schemaDir)
	switch {
	case errors.Is(err, schema.ErrDirectoryNotFound), errors.Is(err, schema.ErrNoSchemaFiles):
		docs = nil
	case err != nil:
		writeError(w, http.StatusInternalServerError, "LOAD_FAILED", err.Error())
		return
	}
	names := schema.ModelNames(docs)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": names})
}

// JSONSchema returns the JSON Schema of a document kind ("app" or "project").
// GET /api/jsonschema/{kind}
func (h *SchemaHandler) JSONSchema(w http.ResponseWriter, r *http.Request) {
	kind, err := schema.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_KIND", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, schema.JSONSchema(kind))
}

// SaveSchema persists a posted project document, app document, or array of
// app documents as <slug>_schema.json files.
// POST /save-schema/
func (h *SchemaHandler) SaveSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST requests are allowed.")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSchemaBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "Schema document is too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "READ_FAILED", err.Error())
		return
	}

	docs, err := schema.DecodeBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format.")
		return
	}

	var problems []string
	for i, doc := range docs {
		vs, err := schema.CheckStructure(doc.Kind, doc.Raw)
		if err != nil {
			h.log.WithError(err).Error("structure check failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		for _, v := range vs {
			problems = append(problems, fmt.Sprintf("document %d (%s): %s", i, doc.Kind, v))
		}
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Status:  "error",
			Code:    "INVALID_SCHEMA",
			Message: "Schema document does not match the expected structure.",
			Errors:  problems,
		})
		return
	}

	for _, doc := range docs {
		if _, err := schema.FileName(doc.Name()); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_NAME", err.Error())
			return
		}
	}

	files := make([]string, 0, len(docs))
	for _, doc := range docs {
		name, err := schema.Save(h.schemaDir, doc)
		if err != nil {
			h.log.WithError(err).WithField("document", doc.Name()).Error("schema not saved")
			writeError(w, http.StatusInternalServerError, "SAVE_FAILED", err.Error())
			return
		}
		files = append(files, name)
	}

	h.log.WithField("files", files).Info("schema saved")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "All app schemas saved successfully.",
		"files":   files,
	})
}
