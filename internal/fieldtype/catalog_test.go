package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RelationalTypes(t *testing.T) {
	var relational []string
	for _, n := range Default.Names() {
		if ft, _ := Default.Lookup(n); ft.Relational {
			relational = append(relational, n)
		}
	}
	assert.Equal(t, []string{"ForeignKey", "OneToOneField", "ManyToManyField"}, relational)

	fk, ok := Default.Lookup("ForeignKey")
	require.True(t, ok)
	assert.Equal(t, []string{"to"}, fk.RequiredOptions())
	assert.Equal(t, KindSymbol, Default.OptionKind("ForeignKey", "on_delete"))

	m2m, ok := Default.Lookup("ManyToManyField")
	require.True(t, ok)
	_, hasOnDelete := m2m.Option("on_delete")
	assert.False(t, hasOnDelete)
	assert.Equal(t, KindSymbol, Default.OptionKind("ManyToManyField", "on_delete"))
	assert.Equal(t, KindAny, Default.OptionKind("ManyToManyField", "through_fields"))
}

func TestDefault_NamesAreUniqueAndOrdered(t *testing.T) {
	names := Default.Names()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		assert.False(t, seen[n], "duplicate field type %s", n)
		seen[n] = true
	}
	assert.Equal(t, "AutoField", names[0])
	assert.Contains(t, names, "CharField")
}

func TestOptionKind(t *testing.T) {
	assert.Equal(t, KindInt, Default.OptionKind("CharField", "max_length"))
	assert.Equal(t, KindBool, Default.OptionKind("CharField", "null"))
	assert.Equal(t, KindAny, Default.OptionKind("CharField", "default"))
	assert.Equal(t, KindString, Default.OptionKind("NoSuchField", "help_text"))
	assert.Equal(t, KindAny, Default.OptionKind("NoSuchField", "on_delete"))
}

func TestOptions_Document(t *testing.T) {
	doc := Default.Options()
	require.Len(t, doc, len(Default.Names()))

	assert.Equal(t, Required, doc["CharField"]["max_length"])
	assert.Equal(t, Required, doc["ForeignKey"]["to"])
	assert.Equal(t, "models.CASCADE", doc["ForeignKey"]["on_delete"])
	assert.Equal(t, 254, doc["EmailField"]["max_length"])
	assert.Equal(t, "false", doc["TextField"]["null"])
	assert.Equal(t, "true", doc["AutoField"]["primary_key"])
}

func TestRegister_ReplacesWithoutReordering(t *testing.T) {
	c := NewCatalog()
	c.Register(&FieldType{Name: "A"})
	c.Register(&FieldType{Name: "B"})
	c.Register(&FieldType{Name: "A", DartType: "int"})

	assert.Equal(t, []string{"A", "B"}, c.Names())
	ft, ok := c.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "int", ft.DartType)
}
