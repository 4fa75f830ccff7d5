package resource

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/model"
)

func TestDefault_LoadsBuiltInResources(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, res := range reg.All() {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"users", "ideas", "votes", "packages", "invoices", "courses", "lessons", "calendar_events", "activity_log"}, names)

	ideas, err := reg.Get("Ideas")
	require.NoError(t, err)
	assert.Equal(t, "ideas", ideas.Table)
	assert.Equal(t, []string{"title", "description"}, ideas.SearchFields)
	assert.True(t, ideas.IsFilterable("status"))
	assert.False(t, ideas.IsFilterable("title"))
	assert.Equal(t, 6, ideas.Colspan())

	activity, err := reg.Get("activity_log")
	require.NoError(t, err)
	assert.True(t, activity.AutoPopulated)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Get("nope")
	assert.True(t, errors.Is(err, model.ErrUnknownResource))
}

func TestResource_OrderBy(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	ideas, _ := reg.Get("ideas")
	field, asc := ideas.OrderBy()
	assert.Equal(t, model.FieldCreatedAt, field)
	assert.False(t, asc)

	lessons, _ := reg.Get("lessons")
	field, asc = lessons.OrderBy()
	assert.Equal(t, "position", field)
	assert.True(t, asc)
}

func TestLoad_Normalizes(t *testing.T) {
	reg, err := Load(strings.NewReader(`
resources:
  - name: Notes
    fields:
      - {name: body}
    columns:
      - {key: body}
`))
	require.NoError(t, err)

	notes, err := reg.Get("notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", notes.Table)
	assert.Equal(t, "Notes", notes.Title)
	assert.Equal(t, FieldText, notes.Fields[0].Type)
	assert.Equal(t, model.ColumnText, notes.Columns[0].Type)
	assert.Equal(t, "body", notes.Columns[0].Label)
}

func TestLoad_RejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "table with sql in it",
			doc:  "resources:\n  - name: x\n    table: \"x; drop table users\"\n",
			want: "not a plain identifier",
		},
		{
			name: "search on an undeclared field",
			doc:  "resources:\n  - name: x\n    search_fields: [title]\n",
			want: `search field "title"`,
		},
		{
			name: "search on a numeric field",
			doc:  "resources:\n  - name: x\n    fields:\n      - {name: n, type: int}\n    search_fields: [n]\n",
			want: `search field "n"`,
		},
		{
			name: "filter on an undeclared field",
			doc:  "resources:\n  - name: x\n    filter_fields: [status]\n",
			want: `filter field "status"`,
		},
		{
			name: "unknown column type",
			doc:  "resources:\n  - name: x\n    columns:\n      - {key: id, type: sparkline}\n",
			want: "unknown type",
		},
		{
			name: "duplicate names",
			doc:  "resources:\n  - name: x\n  - name: x\n",
			want: "declared twice",
		},
		{
			name: "unknown yaml key",
			doc:  "resources:\n  - name: x\n    colums: []\n",
			want: "decode resource definitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResource_Label(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	ideas, err := reg.Get("ideas")
	require.NoError(t, err)

	assert.Equal(t, "Title", ideas.Label(model.Row{"id": "i1", "title": "Title"}))
	assert.Equal(t, "i1", ideas.Label(model.Row{"id": "i1"}))
}
