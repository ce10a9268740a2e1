package loader

import (
	"testing"

	"github.com/kolah/endpointgen/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCheckEndpoint(t *testing.T) {
	notFound := model.ErrorVariant{Name: "NotFound", Message: "not found"}
	gone := model.ErrorVariant{Name: "Gone", Message: "gone"}

	tests := []struct {
		name         string
		endpoint     model.Endpoint
		wantHandlers []model.StatusHandler
		wantWarnings []string
	}{
		{
			name: "duplicate status keeps the first handler",
			endpoint: model.Endpoint{
				Path:   "/a",
				Kind:   model.KindNothing,
				Errors: []model.ErrorVariant{notFound, gone},
				StatusHandlers: []model.StatusHandler{
					{Status: 404, Variant: "NotFound"},
					{Status: 410, Variant: "Gone"},
					{Status: 404, Variant: "Gone"},
				},
			},
			wantHandlers: []model.StatusHandler{
				{Status: 404, Variant: "NotFound"},
				{Status: 410, Variant: "Gone"},
			},
			wantWarnings: []string{"duplicate handler for status 404, keeping the first"},
		},
		{
			name: "handler functions take part in dedup",
			endpoint: model.Endpoint{
				Path:   "/a",
				Kind:   model.KindNothing,
				Errors: []model.ErrorVariant{notFound},
				StatusHandlers: []model.StatusHandler{
					{Status: 429, Handler: "quota.Parse"},
					{Status: 404, Variant: "NotFound"},
					{Status: 429, Handler: "parseQuota"},
				},
			},
			wantHandlers: []model.StatusHandler{
				{Status: 429, Handler: "quota.Parse"},
				{Status: 404, Variant: "NotFound"},
			},
			wantWarnings: []string{"duplicate handler for status 429, keeping the first"},
		},
		{
			name: "handler on the success status is dropped",
			endpoint: model.Endpoint{
				Path:           "/a",
				Kind:           model.KindNothing,
				SuccessStatus:  204,
				Errors:         []model.ErrorVariant{notFound},
				StatusHandlers: []model.StatusHandler{{Status: 204, Variant: "NotFound"}},
			},
			wantHandlers: []model.StatusHandler{},
			wantWarnings: []string{"handler for status 204 is shadowed by the success status"},
		},
		{
			name: "placeholders outside a path endpoint",
			endpoint: model.Endpoint{
				Path:       "/books/:id",
				Kind:       model.KindQuerystring,
				Parameters: []model.Parameter{{Name: "id", Type: "uint32"}},
			},
			wantWarnings: []string{"placeholders in /books/:id are not substituted for querystring parameters"},
		},
		{
			name: "path parameter missing from the template",
			endpoint: model.Endpoint{
				Path: "/books/:id",
				Kind: model.KindPath,
				Parameters: []model.Parameter{
					{Name: "id", Type: "uint32"},
					{Name: "page", Type: "int"},
				},
			},
			wantWarnings: []string{"parameter page does not appear in path /books/:id"},
		},
		{
			name: "parameters of a nothing endpoint",
			endpoint: model.Endpoint{
				Path:       "/a",
				Kind:       model.KindNothing,
				Parameters: []model.Parameter{{Name: "page", Type: "int"}},
			},
			wantWarnings: []string{"parameters are ignored for parameter kind nothing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := tt.endpoint
			warnings, err := checkEndpoint(&ep)
			require.NoError(t, err)
			require.Equal(t, tt.wantWarnings, warnings)
			if tt.wantHandlers != nil {
				require.Equal(t, tt.wantHandlers, ep.StatusHandlers)
			}
		})
	}
}

func TestCheckDefaultsSuccessStatus(t *testing.T) {
	c := &model.Catalog{Namespaces: []model.Namespace{{
		Name:      "user",
		Endpoints: []model.Endpoint{{Name: "get_me", Path: "/users/@me", Kind: model.KindNothing}},
	}}}

	warnings, err := Check(c)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, 200, c.Namespaces[0].Endpoints[0].SuccessStatus)
}

func TestCheckDuplicateNamespace(t *testing.T) {
	c := &model.Catalog{Namespaces: []model.Namespace{{Name: "user"}, {Name: "user"}}}
	_, err := Check(c)
	require.ErrorContains(t, err, `duplicate namespace "user"`)
}

func TestCheckEndpointNamesAcrossNamespaces(t *testing.T) {
	c := &model.Catalog{Namespaces: []model.Namespace{
		{Name: "user", Endpoints: []model.Endpoint{{Name: "get_me", Path: "/users/@me", Kind: model.KindNothing}}},
		{Name: "auth", Endpoints: []model.Endpoint{{Name: "get_me", Path: "/auth/@me", Kind: model.KindNothing}}},
	}}
	_, err := Check(c)
	require.ErrorContains(t, err, `auth: endpoint "get_me" is already declared in user`)
}

func TestIsFuncName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"parseQuota", true},
		{"quota.Parse", true},
		{"", false},
		{"quota.", false},
		{"a.b.c", false},
		{"parse(quota)", false},
		{"func", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isFuncName(tt.name))
		})
	}
}
