package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schema")
	doc := decode(t, blogApp)

	name, err := Save(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, "blog_schema.json", name)

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, blogApp, string(docs[0].Raw))

	post := docs[0].App.Models[0]
	assert.Equal(t, []string{"title", "author"}, post.Names())
	assert.Equal(t, []string{"max_length", "blank"}, post.Fields[0].Attributes.Keys())
}

func TestSave_Overwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := Save(dir, decode(t, blogApp))
	require.NoError(t, err)
	_, err = Save(dir, decode(t, `{"appName":"Blog","models":[]}`))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "blog_schema.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"appName":"Blog","models":[]}`, string(got))
}

func TestSave_KeepsKeyOrderInFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Save(dir, decode(t, `{"models":[],"appName":"Zed"}`))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "zed_schema.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"models\": [],\n    \"appName\": \"Zed\"\n}\n", string(got))
}

func TestSave_EmptySlug(t *testing.T) {
	_, err := Save(t.TempDir(), decode(t, `{"appName":"!!!","models":[]}`))
	assert.ErrorIs(t, err, ErrEmptySlug)
}

func TestAttributes_MarshalKeepsOrder(t *testing.T) {
	a := NewAttributes(
		Attribute{Key: "to", Value: "Author"},
		Attribute{Key: "on_delete", Value: "CASCADE"},
	)
	a.Set("to", "Writer")

	b, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"to":"Writer","on_delete":"CASCADE"}`, string(b))

	var empty Attributes
	b, err = empty.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
	assert.Zero(t, empty.Len())
}

func TestAttributes_UnmarshalRejectsNonObject(t *testing.T) {
	var a Attributes
	assert.Error(t, a.UnmarshalJSON([]byte(`[1,2]`)))
	require.NoError(t, a.UnmarshalJSON([]byte(`null`)))
	assert.Zero(t, a.Len())
}
