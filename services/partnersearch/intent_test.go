package partnersearch

import (
	"testing"

	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/stretchr/testify/require"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  otlas.SearchType
	}{
		{
			name:  "partner language",
			query: "find partner organizations with experience with inclusion work",
			want:  otlas.SearchOrganizations,
		},
		{
			name:  "project language",
			query: "KA152 project calls to participate in before the deadline",
			want:  otlas.SearchProjects,
		},
		{
			name:  "ambiguous falls back to organizations",
			query: "youth exchange in the alps",
			want:  otlas.SearchOrganizations,
		},
		{
			name:  "ka code alone",
			query: "anything tagged ka220",
			want:  otlas.SearchProjects,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			intent := ClassifyIntent(c.query)
			require.Equal(t, c.want, intent.Type)
			require.Greater(t, intent.Confidence, 0.0)
			require.LessOrEqual(t, intent.Confidence, 1.0)
		})
	}
}

func TestClassifyIntentAmbiguousConfidence(t *testing.T) {
	intent := ClassifyIntent("youth exchange in the alps")
	require.Zero(t, intent.PartnerScore)
	require.Zero(t, intent.ProjectScore)
	require.Equal(t, 0.5, intent.Confidence)
}

func TestExtractFilterCountry(t *testing.T) {
	filter := ExtractFilter("environmental NGOs in Portugal")
	require.Equal(t, "Portugal", filter.Country)
	require.Equal(t, "environmental NGOs in Portugal", filter.Query)
}

func TestExtractFilterFuzzyCountry(t *testing.T) {
	filter := ExtractFilter("partners located in Germny")
	require.Equal(t, "Germany", filter.Country)
}

func TestExtractFilterMultiWordCountry(t *testing.T) {
	require.Equal(t, "Czech Republic", ExtractFilter("groups from the Czech Republic").Country)
	require.Equal(t, "Czech Republic", ExtractFilter("czech youth groups").Country)
}

func TestExtractFilterNoCountry(t *testing.T) {
	require.Empty(t, ExtractFilter("digital youth work somewhere").Country)
}

func TestExtractFilterProjectType(t *testing.T) {
	filter := ExtractFilter("ka210 small-scale partnership on media literacy")
	require.Equal(t, "KA210", filter.ProjectType)
}

func TestExtractFilterThemeAndTargetGroup(t *testing.T) {
	filter := ExtractFilter("green projects for young people")
	require.Equal(t, "Environment", filter.Theme)
	require.Equal(t, "Young people", filter.TargetGroup)

	filter = ExtractFilter("technology training for youth workers")
	require.Equal(t, "Digital skills", filter.Theme)
	require.Equal(t, "Youth workers", filter.TargetGroup)
}
