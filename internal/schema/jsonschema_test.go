package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema_FieldTypeEnum(t *testing.T) {
	s := JSONSchema(KindApp)
	assert.Equal(t, draft07, s.Version)

	models, ok := s.Properties.Get("models")
	require.True(t, ok)
	require.NotNil(t, models.Items)
	fields, ok := models.Items.Properties.Get("fields")
	require.True(t, ok)
	require.NotNil(t, fields.Items)
	ft, ok := fields.Items.Properties.Get("fieldType")
	require.True(t, ok)
	assert.Contains(t, ft.Enum, "CharField")
	assert.Contains(t, ft.Enum, "ForeignKey")

	attrs, ok := fields.Items.Properties.Get("attributes")
	require.True(t, ok)
	assert.Equal(t, "object", attrs.Type)
}

func TestCheckStructure(t *testing.T) {
	vs, err := CheckStructure(KindApp, []byte(blogApp))
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = CheckStructure(KindProject, []byte(shopProject))
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = CheckStructure(KindApp, []byte(`{"appName":"Blog"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, vs)

	vs, err = CheckStructure(KindApp, []byte(`{"appName":"Blog","models":[{"modelName":"Post","fields":[
		{"fieldName":"x","fieldType":"Bogus"}]}]}`))
	require.NoError(t, err)
	require.NotEmpty(t, vs)
	assert.Contains(t, vs[0].Path, "fieldType")

	vs, err = CheckStructure(KindApp, []byte(`{"appName":"","models":[]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, vs)
}
