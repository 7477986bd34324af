package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

type mockCatalog struct {
	entity.Named
	Code     string `db:"code" json:"code"`
	Internal string `json:"-"`
	Skipped  string `db:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	assert.Equal(t, []string{"id", "active", "version", "name", "code"}, cols)
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockCatalog](), ExtractDBColumns[*mockCatalog]())
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Named:    entity.NewNamed("Test Name"),
		Code:     "TEST",
		Internal: "hidden",
		Skipped:  "hidden",
	}
	cat.Version = 5

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, "TEST", m["code"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 5)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(id.New().String()))
}
