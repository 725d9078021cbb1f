// Package emit renders the Python source files of a generated Django app.
//
// Every emitter is a pure function of the app description. WriteApp stores
// the results, replacing whatever the files held before, so regenerating an
// unchanged app leaves byte-identical files.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

// ErrMissingName is returned for a model or field without a name.
var ErrMissingName = errors.New("missing name")

// skipKey marks an attribute the authoring page leaves unset.
const skipKey = "undefined"

type cw struct{ bytes.Buffer }

func (w *cw) line(format string, args ...interface{}) {
	fmt.Fprintf(&w.Buffer, format+"\n", args...)
}

func checkNames(app schema.AppSchema) error {
	for i, m := range app.Models {
		if m.ModelName == "" {
			return fmt.Errorf("%w: model %d of app %s", ErrMissingName, i, app.AppName)
		}
		for j, f := range m.Fields {
			if f.FieldName == "" {
				return fmt.Errorf("%w: field %d of model %s", ErrMissingName, j, m.ModelName)
			}
		}
	}
	return nil
}

func modelNames(app schema.AppSchema) []string {
	names := make([]string, len(app.Models))
	for i, m := range app.Models {
		names[i] = m.ModelName
	}
	return names
}

// Models renders models.py.
func Models(app schema.AppSchema) (string, error) {
	if err := checkNames(app); err != nil {
		return "", err
	}
	var w cw
	w.line("# Models for %s app", app.AppName)
	w.line("")
	w.line("from django.db import models")
	for _, m := range app.Models {
		w.line("")
		w.line("")
		w.line("class %s(models.Model):", m.ModelName)
		if len(m.Fields) == 0 {
			w.line("    pass")
			continue
		}
		for _, f := range m.Fields {
			w.line("    %s = models.%s(%s)", f.FieldName, f.FieldType, kwargs(f))
		}
	}
	return w.String(), nil
}

func kwargs(f schema.FieldSchema) string {
	var parts []string
	for _, a := range f.Attributes.Pairs() {
		if a.Key == skipKey {
			continue
		}
		parts = append(parts, a.Key+"="+RenderValue(fieldtype.Default, f.FieldType, a.Key, a.Value))
	}
	return strings.Join(parts, ", ")
}

// Admin renders admin.py.
func Admin(app schema.AppSchema) (string, error) {
	if err := checkNames(app); err != nil {
		return "", err
	}
	var w cw
	w.line("# Admin for %s app", app.AppName)
	w.line("")
	w.line("from django.contrib import admin")
	if len(app.Models) > 0 {
		w.line("")
		w.line("from .models import %s", strings.Join(modelNames(app), ", "))
	}
	for _, m := range app.Models {
		fields := pyList(m.Names())
		w.line("")
		w.line("")
		w.line("@admin.register(%s)", m.ModelName)
		w.line("class %sAdmin(admin.ModelAdmin):", m.ModelName)
		w.line("    list_display = %s", fields)
		w.line("    search_fields = %s", fields)
	}
	return w.String(), nil
}

// Serializers renders serializers.py.
func Serializers(app schema.AppSchema) (string, error) {
	if err := checkNames(app); err != nil {
		return "", err
	}
	var w cw
	w.line("# Serializers for %s app", app.AppName)
	w.line("")
	w.line("from rest_framework import serializers")
	if len(app.Models) > 0 {
		w.line("")
		w.line("from .models import %s", strings.Join(modelNames(app), ", "))
	}
	for _, m := range app.Models {
		w.line("")
		w.line("")
		w.line("class %sSerializer(serializers.ModelSerializer):", m.ModelName)
		w.line("    class Meta:")
		w.line("        model = %s", m.ModelName)
		w.line("        fields = '__all__'")
	}
	return w.String(), nil
}

// Views renders views.py.
func Views(app schema.AppSchema) (string, error) {
	if err := checkNames(app); err != nil {
		return "", err
	}
	names := modelNames(app)
	var w cw
	w.line("# Views for %s app", app.AppName)
	w.line("")
	w.line("from rest_framework import viewsets")
	if len(names) > 0 {
		serializers := make([]string, len(names))
		for i, n := range names {
			serializers[i] = n + "Serializer"
		}
		w.line("")
		w.line("from .models import %s", strings.Join(names, ", "))
		w.line("from .serializers import %s", strings.Join(serializers, ", "))
	}
	for _, m := range app.Models {
		w.line("")
		w.line("")
		w.line("class %sViewSet(viewsets.ModelViewSet):", m.ModelName)
		w.line("    queryset = %s.objects.all()", m.ModelName)
		w.line("    serializer_class = %sSerializer", m.ModelName)
	}
	return w.String(), nil
}

// RoutePrefix returns the router prefix of a model: its lowercased name
// followed by "s".
func RoutePrefix(modelName string) string {
	return strings.ToLower(modelName) + "s"
}

// URLs renders urls.py.
func URLs(app schema.AppSchema) (string, error) {
	if err := checkNames(app); err != nil {
		return "", err
	}
	names := modelNames(app)
	var w cw
	w.line("# URL patterns for %s app", app.AppName)
	w.line("")
	w.line("from django.urls import include, path")
	w.line("from rest_framework.routers import DefaultRouter")
	if len(names) > 0 {
		viewsets := make([]string, len(names))
		for i, n := range names {
			viewsets[i] = n + "ViewSet"
		}
		w.line("")
		w.line("from .views import %s", strings.Join(viewsets, ", "))
	}
	w.line("")
	w.line("router = DefaultRouter()")
	for _, n := range names {
		w.line("router.register(r'%s', %sViewSet)", RoutePrefix(n), n)
	}
	w.line("")
	w.line("urlpatterns = [")
	w.line("    path('', include(router.urls)),")
	w.line("]")
	return w.String(), nil
}
