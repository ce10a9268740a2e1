package apiclient

import (
	"context"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type createUserBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  *uint8 `json:"role,omitempty"`
}

func TestBuildRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("querystring appends encoded params", func(t *testing.T) {
		req, err := BuildRequest(ctx, http.MethodGet, "https://api.test", "/books", AccessToken("acc"), Querystring, idsQuery{IDs: []uint32{1, 2, 3}})
		require.NoError(t, err)
		require.Equal(t, "https://api.test/books?ids=1&ids=2&ids=3", req.URL.String())
		require.Nil(t, req.Body)
		require.Equal(t, "access_token=acc", req.Header.Get("Cookie"))
	})

	t.Run("json sets body and content type", func(t *testing.T) {
		req, err := BuildRequest(ctx, http.MethodPost, "https://api.test", "/users", nil, JSON, createUserBody{Name: "kim", Email: "kim@test"})
		require.NoError(t, err)
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"name":"kim","email":"kim@test"}`, string(body))
		require.Empty(t, req.Header.Get("Cookie"))
	})

	t.Run("path and nothing ignore params", func(t *testing.T) {
		for _, kind := range []ParameterKind{Path, Nothing} {
			req, err := BuildRequest(ctx, http.MethodDelete, "https://api.test", "/books/7", TokenPair("a", "r"), kind, struct{}{})
			require.NoError(t, err)
			require.Equal(t, "https://api.test/books/7", req.URL.String())
			require.Nil(t, req.Body)
			require.Equal(t, "access_token=a; refresh_token=r", req.Header.Get("Cookie"))
		}
	})

	t.Run("json serialize failure", func(t *testing.T) {
		_, err := BuildRequest(ctx, http.MethodPost, "https://api.test", "/x", nil, JSON, map[string]float64{"x": math.Inf(1)})
		require.ErrorIs(t, err, &BaseError{Kind: KindJSONSerialize})
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := BuildRequest(ctx, http.MethodGet, "://bad", "/x", nil, Nothing, nil)
		require.ErrorIs(t, err, &BaseError{Kind: KindInvalidArgument})
	})
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   []PathParam
		want     string
	}{
		{
			name:     "single",
			template: "/books/:book_id",
			params:   []PathParam{{Name: "book_id", Value: uint32(42)}},
			want:     "/books/42",
		},
		{
			name:     "multiple with suffix",
			template: "/books/:book_id/images/:file_name",
			params:   []PathParam{{Name: "book_id", Value: 1}, {Name: "file_name", Value: "a b.png"}},
			want:     "/books/1/images/a%20b.png",
		},
		{
			name:     "unknown token left in place",
			template: "/users/:user_id/likes",
			want:     "/users/:user_id/likes",
		},
		{
			name:     "prefix names do not collide",
			template: "/:id/:id_two",
			params:   []PathParam{{Name: "id", Value: "x"}, {Name: "id_two", Value: "y"}},
			want:     "/x/y",
		},
		{
			name:     "lone colon",
			template: "/a:/b",
			want:     "/a:/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExpandPath(tt.template, tt.params...))
		})
	}
}

func TestPathPlaceholders(t *testing.T) {
	require.Equal(t, []string{"book_id", "file_name"}, PathPlaceholders("/books/:book_id/images/:file_name"))
	require.Empty(t, PathPlaceholders("/users/@me"))
}
