package record_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain"
	"assettrack/internal/domain/catalogs/country"
	"assettrack/internal/domain/filter"
	"assettrack/internal/infrastructure/storage/postgres"
)

func testRepo() *BaseRecordRepo[*country.Country] {
	return NewBaseRecordRepo(
		"countries",
		postgres.ExtractDBColumns[country.Country](),
		func() *country.Country { return &country.Country{} },
		nil,
	)
}

func TestApplyFilters_SQL(t *testing.T) {
	r := testRepo()

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "equality",
			item:     filter.Eq("name", "Brazil"),
			wantSQL:  "SELECT id, active, version, name FROM countries WHERE name = $1",
			wantArgs: []any{"Brazil"},
		},
		{
			name:     "contains renders ILIKE",
			item:     filter.Item{Field: "name", Operator: filter.Contains, Value: "bra"},
			wantSQL:  "SELECT id, active, version, name FROM countries WHERE name ILIKE $1",
			wantArgs: []any{"%bra%"},
		},
		{
			name:     "in list",
			item:     filter.Item{Field: "name", Operator: filter.InList, Value: []string{"Brazil", "Chile"}},
			wantSQL:  "SELECT id, active, version, name FROM countries WHERE name IN ($1,$2)",
			wantArgs: []any{"Brazil", "Chile"},
		},
		{
			name:     "null check carries no args",
			item:     filter.Item{Field: "name", Operator: filter.IsNull},
			wantSQL:  "SELECT id, active, version, name FROM countries WHERE name IS NULL",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := r.applyFilters(r.baseSelect(), []filter.Item{tt.item})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestApplyFilters_RejectsUnknownColumn(t *testing.T) {
	r := testRepo()

	_, err := r.applyFilters(r.baseSelect(), []filter.Item{filter.Eq("password", "x")})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyFilters_RejectsUnknownOperator(t *testing.T) {
	r := testRepo()

	_, err := r.applyFilters(r.baseSelect(), []filter.Item{
		{Field: "name", Operator: "between", Value: "x"},
	})
	require.Error(t, err)
}

func TestBumpVersion(t *testing.T) {
	c := country.New("Brazil")
	require.Equal(t, 1, c.Version)

	// a successful update leaves the struct at the row's new version
	bumpVersion(c)
	assert.Equal(t, 2, c.Version)
}

func TestParseOrderBy(t *testing.T) {
	r := testRepo()

	t.Run("defaults to id asc", func(t *testing.T) {
		terms, err := r.parseOrderBy(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"id ASC"}, terms)
	})

	t.Run("renders terms in order", func(t *testing.T) {
		terms, err := r.parseOrderBy([]domain.OrderBy{
			{Field: "name", Direction: domain.Desc},
			{Field: "id"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"name DESC", "id ASC"}, terms)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		_, err := r.parseOrderBy([]domain.OrderBy{{Field: "secret"}})
		require.Error(t, err)
	})

	t.Run("rejects bad direction", func(t *testing.T) {
		_, err := r.parseOrderBy([]domain.OrderBy{{Field: "name", Direction: "sideways"}})
		require.Error(t, err)
	})
}
