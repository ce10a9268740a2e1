package apiclient

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/gorilla/schema"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

type sortBy string

type booksQuery struct {
	Kind    *string `schema:"kind,omitempty"`
	PerPage uint    `schema:"per-page"`
	Page    uint    `schema:"page"`
	SortBy  *sortBy `schema:"sort-by,omitempty"`
}

type idsQuery struct {
	IDs []uint32 `schema:"ids"`
}

func TestEncodeQuery(t *testing.T) {
	manga := "manga"
	random := sortBy("random")

	tests := []struct {
		name   string
		params any
		want   string
	}{
		{
			name:   "declared order, not alphabetical",
			params: booksQuery{Kind: &manga, PerPage: 25, Page: 2, SortBy: &random},
			want:   "kind=manga&per-page=25&page=2&sort-by=random",
		},
		{
			name:   "nil optionals are omitted",
			params: booksQuery{PerPage: 25, Page: 1},
			want:   "per-page=25&page=1",
		},
		{
			name:   "slices repeat the key",
			params: idsQuery{IDs: []uint32{1, 2, 3}},
			want:   "ids=1&ids=2&ids=3",
		},
		{
			name:   "pointer to struct",
			params: &idsQuery{IDs: []uint32{9}},
			want:   "ids=9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeQuery(tt.params)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeQueryUnsupportedField(t *testing.T) {
	type tagsQuery struct {
		Tags [][2]string `schema:"tags"`
	}

	_, err := EncodeQuery(tagsQuery{Tags: [][2]string{{"female", "glasses"}}})
	base, ok := AsBase(err)
	require.True(t, ok)
	require.Equal(t, KindQuerystringSerialize, base.Kind)
}

func TestEncodeQueryRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	decoder := schema.NewDecoder()

	properties.Property("decoding the encoded query rebuilds the struct", prop.ForAll(
		func(ids []uint32, perPage uint, page uint) bool {
			in := struct {
				IDs     []uint32 `schema:"ids,omitempty"`
				PerPage uint     `schema:"per-page"`
				Page    uint     `schema:"page"`
			}{IDs: ids, PerPage: perPage, Page: page}

			qs, err := EncodeQuery(in)
			if err != nil {
				return false
			}
			values, err := url.ParseQuery(qs)
			if err != nil {
				return false
			}

			out := in
			out.IDs, out.PerPage, out.Page = nil, 0, 0
			if err := decoder.Decode(&out, values); err != nil {
				return false
			}
			if len(in.IDs) == 0 {
				return len(out.IDs) == 0 && out.PerPage == in.PerPage && out.Page == in.Page
			}
			return reflect.DeepEqual(in, out)
		},
		gen.SliceOf(gen.UInt32()),
		gen.UInt(),
		gen.UInt(),
	))

	properties.Property("keys follow declaration order", prop.ForAll(
		func(perPage uint, page uint) bool {
			qs, err := EncodeQuery(booksQuery{PerPage: perPage, Page: page})
			if err != nil {
				return false
			}
			return strings.HasPrefix(qs, "per-page=") && strings.Contains(qs, "&page=")
		},
		gen.UInt(),
		gen.UInt(),
	))

	properties.TestingRun(t)
}
