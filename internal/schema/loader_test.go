package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogApp = `{
  "appName": "Blog",
  "models": [
    {
      "modelName": "Post",
      "fields": [
        {"fieldName": "title", "fieldType": "CharField", "attributes": {"max_length": "100", "blank": "false"}},
        {"fieldName": "author", "fieldType": "ForeignKey", "attributes": {"to": "Author", "on_delete": "models.CASCADE"}}
      ]
    }
  ]
}`

const shopProject = `{
  "projectName": "Shop",
  "apps": [
    {"appName": "Catalog", "models": [{"modelName": "Item", "fields": []}]},
    {"appName": "Orders", "models": []}
  ]
}`

func writeSchema(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_OrderAndKinds(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "shop_schema.json", shopProject)
	writeSchema(t, dir, "blog_schema.json", blogApp)
	writeSchema(t, dir, "notes.json", `not json at all`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested_schema.json"), 0o755))

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "blog_schema.json", docs[0].File)
	assert.Equal(t, KindApp, docs[0].Kind)
	assert.Equal(t, "Blog", docs[0].Name())

	assert.Equal(t, "shop_schema.json", docs[1].File)
	assert.Equal(t, KindProject, docs[1].Kind)
	apps := docs[1].Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "Catalog", apps[0].AppName)
	assert.Equal(t, "Orders", apps[1].AppName)
}

func TestLoad_AttributeOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "blog_schema.json", blogApp)

	docs, err := Load(dir)
	require.NoError(t, err)

	post := docs[0].App.Models[0]
	assert.Equal(t, []string{"title", "author"}, post.Names())
	assert.Equal(t, []string{"max_length", "blank"}, post.Fields[0].Attributes.Keys())
	assert.Equal(t, []string{"to", "on_delete"}, post.Fields[1].Attributes.Keys())

	v, ok := post.Fields[1].Attributes.Get("to")
	require.True(t, ok)
	assert.Equal(t, "Author", v)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent"))
		assert.ErrorIs(t, err, ErrDirectoryNotFound)
	})

	t.Run("no schema files", func(t *testing.T) {
		dir := t.TempDir()
		writeSchema(t, dir, "readme.txt", "hello")
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrNoSchemaFiles)
		assert.Contains(t, err.Error(), "no schema files found")
	})

	t.Run("malformed file aborts load", func(t *testing.T) {
		dir := t.TempDir()
		writeSchema(t, dir, "a_schema.json", blogApp)
		writeSchema(t, dir, "b_schema.json", `{"appName": `)
		docs, err := Load(dir)
		assert.Nil(t, docs)
		require.ErrorIs(t, err, ErrMalformedSchema)

		var me *MalformedError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "b_schema.json", me.File)
	})

	t.Run("top-level array is malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeSchema(t, dir, "list_schema.json", `[`+blogApp+`]`)
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrMalformedSchema)
	})
}

func TestDecodeBody(t *testing.T) {
	docs, err := DecodeBody([]byte(`[` + blogApp + `,{"appName":"Shop","models":[]}]`))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Blog", docs[0].Name())
	assert.Equal(t, "Shop", docs[1].Name())

	docs, err = DecodeBody([]byte(shopProject))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, KindProject, docs[0].Kind)

	_, err = DecodeBody([]byte(`hello`))
	assert.Error(t, err)
	_, err = DecodeBody([]byte(`[]`))
	assert.Error(t, err)
	_, err = DecodeBody([]byte(`null`))
	assert.Error(t, err)
}

func TestModelNames(t *testing.T) {
	a, err := Decode([]byte(blogApp))
	require.NoError(t, err)
	p, err := Decode([]byte(shopProject))
	require.NoError(t, err)

	assert.Equal(t, []string{"Post", "Item"}, ModelNames([]Document{a, p, a}))
}
