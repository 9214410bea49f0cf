package otlas

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func testQueryBuilder(t *testing.T, maxResults int) QueryBuilder {
	base, err := url.Parse("https://www.salto-youth.net/tools/otlas-partner-finding")
	require.NoError(t, err)
	return NewQueryBuilder(base, maxResults)
}

func TestBuildOrganizationQuery(t *testing.T) {
	builder := testQueryBuilder(t, 50)

	desc, err := builder.Build(SearchFilter{
		Type:       SearchOrganizations,
		Query:      "youth exchange",
		Country:    "Germany",
		MaxResults: 20,
	})
	require.NoError(t, err)
	require.Equal(t, SearchOrganizations, desc.Type)

	link, err := url.Parse(desc.URL)
	require.NoError(t, err)
	require.Equal(t, "/tools/otlas-partner-finding/search", link.Path)

	query := link.Query()
	require.Equal(t, "youth exchange", query.Get("search"))
	require.Equal(t, "organizations", query.Get("searchType"))
	require.Equal(t, "20", query.Get("limit"))
	require.Equal(t, "Germany", query.Get("country"))
	require.Empty(t, query.Get("projectType"))
}

func TestBuildProjectQuery(t *testing.T) {
	builder := testQueryBuilder(t, 50)

	desc, err := builder.Build(SearchFilter{
		Type:        SearchProjects,
		Query:       "digital skills",
		ProjectType: "KA152",
		MaxResults:  10,
	})
	require.NoError(t, err)

	link, err := url.Parse(desc.URL)
	require.NoError(t, err)
	query := link.Query()
	require.Equal(t, "projects", query.Get("searchType"))
	require.Equal(t, "KA152", query.Get("projectType"))
}

func TestBuildIsDeterministic(t *testing.T) {
	builder := testQueryBuilder(t, 50)
	filter := SearchFilter{
		Type:        SearchOrganizations,
		Query:       "inclusion",
		Country:     "Spain",
		Theme:       "social inclusion",
		TargetGroup: "young people",
		MaxResults:  5,
	}

	first, err := builder.Build(filter)
	require.NoError(t, err)
	second, err := builder.Build(filter)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildFoldsFacetsIntoSearchTerm(t *testing.T) {
	builder := testQueryBuilder(t, 50)

	desc, err := builder.Build(SearchFilter{
		Type:         SearchOrganizations,
		Query:        "exchange",
		ActivityType: "Training course",
		Theme:        "environment",
	})
	require.NoError(t, err)
	require.Equal(t, "exchange Training course environment", desc.Params["search"])
}

func TestBuildClampsResultCap(t *testing.T) {
	builder := testQueryBuilder(t, 50)

	cases := []struct {
		requested int
		expect    string
	}{
		{200, "50"},
		{0, "50"},
		{-3, "50"},
		{1, "1"},
	}
	for _, test := range cases {
		desc, err := builder.Build(SearchFilter{
			Type:       SearchOrganizations,
			Query:      "x",
			MaxResults: test.requested,
		})
		require.NoError(t, err)
		require.Equal(t, test.expect, desc.Params["limit"])
	}
}

func TestBuildRejectsUnknownSearchType(t *testing.T) {
	builder := testQueryBuilder(t, 50)

	_, err := builder.Build(SearchFilter{Type: "people", Query: "x"})
	require.Error(t, err)
	require.ErrorIs(t, err, InvalidSearchType)
}
