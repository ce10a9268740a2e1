package golang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarType(t *testing.T) {
	tests := []struct {
		typ        string
		format     string
		expected   string
		expectedIm string
	}{
		{"string", "", "string", ""},
		{"string", "uuid", "uuid.UUID", UUIDImport},
		{"string", "date-time", "time.Time", "time"},
		{"string", "binary", "[]byte", ""},
		{"integer", "", "int", ""},
		{"integer", "int32", "int32", ""},
		{"integer", "uint32", "uint32", ""},
		{"number", "", "float64", ""},
		{"number", "float", "float32", ""},
		{"boolean", "", "bool", ""},
		{"object", "", "any", ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.format, func(t *testing.T) {
			got, imp := ScalarType(tt.typ, tt.format)
			require.Equal(t, tt.expected, got)
			require.Equal(t, tt.expectedIm, imp)
		})
	}
}

func TestRefToTypeName(t *testing.T) {
	require.Equal(t, "Book", RefToTypeName("#/components/schemas/Book"))
	require.Equal(t, "BookKind", RefToTypeName("#/components/schemas/book_kind"))
	require.Equal(t, "any", RefToTypeName("#/components/schemas/"))
	require.Equal(t, "any", RefToTypeName("Book"))
}

func TestParseType(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{"uint32", false},
		{"[]Book", false},
		{"*BookKind", false},
		{"map[string][]uuid.UUID", false},
		{"[2]string", false},
		{"struct{}", false},
		{"Page[Book]", false},
		{"", true},
		{"1 + 2", true},
		{"f()", true},
		{"[]", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			_, err := ParseType(tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"json required", JSONTag("title", false), "`json:\"title\"`"},
		{"json optional", JSONTag("pageCount", true), "`json:\"page_count,omitempty\"`"},
		{"query required", QueryTag("ids", false), "`schema:\"ids\"`"},
		{"query optional", QueryTag("per_page", true), "`schema:\"per-page,omitempty\"`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestOptional(t *testing.T) {
	require.True(t, IsOptional("*uint32"))
	require.True(t, IsOptional("[]Book"))
	require.True(t, IsOptional("map[string]string"))
	require.False(t, IsOptional("uint32"))
	require.False(t, IsOptional("uuid.UUID"))
	require.Equal(t, "*uint32", Optional("uint32"))
	require.Equal(t, "[]Book", Optional("[]Book"))
}
