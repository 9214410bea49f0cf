package partnersearch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func organizationResponse() otlas.SearchResponse {
	return otlas.SearchResponse{
		SearchType:      otlas.SearchOrganizations,
		QueryParameters: map[string]string{"search": "environment"},
		TotalResults:    1,
		Organizations: []otlas.Organization{
			{
				Name:             "Youth Bridge",
				Country:          "Estonia",
				OrganizationType: "NGO",
				ExperienceLevel:  "Experienced",
				TargetGroups:     []string{"Young people", "Migrants"},
				ActivityTypes:    []string{"Youth Exchange"},
				ContactInfo:      "info@youthbridge.ee",
				ProfileUrl:       "https://example.org/1",
				LastActive:       "2 days ago",
			},
		},
		SearchTimestamp: "2026-08-22T10:30:00Z",
		Success:         true,
	}
}

func TestExportCSVOrganizations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, organizationResponse(), ExportCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(
		t,
		"Name,Country,Type,Experience,Target Groups,Activity Types,Profile URL",
		lines[0],
	)
	require.Equal(
		t,
		"Youth Bridge,Estonia,NGO,Experienced,Young people; Migrants,Youth Exchange,https://example.org/1",
		lines[1],
	)
}

func TestExportCSVProjects(t *testing.T) {
	response := otlas.SearchResponse{
		SearchType:   otlas.SearchProjects,
		TotalResults: 1,
		Projects: []otlas.ProjectListing{
			{
				Title:               "Green Steps",
				ProjectType:         "KA152",
				Countries:           []string{"Germany", "Poland"},
				Deadline:            "2026-09-15",
				Themes:              []string{"Environment", "Sustainability"},
				ContactOrganization: "Green Youth e.V.",
				ProjectUrl:          "https://example.org/p/7",
			},
		},
		SearchTimestamp: "2026-08-22T10:30:00Z",
		Success:         true,
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, response, ExportCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(
		t,
		"Title,Type,Countries,Deadline,Themes,Contact Org,Project URL",
		lines[0],
	)
	require.Equal(
		t,
		"Green Steps,KA152,Germany; Poland,2026-09-15,Environment; Sustainability,Green Youth e.V.,https://example.org/p/7",
		lines[1],
	)
}

func TestExportJSONRoundTrips(t *testing.T) {
	response := organizationResponse()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, response, ExportJSON))

	var decoded otlas.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	if diff := cmp.Diff(response, decoded); diff != "" {
		t.Fatal(diff)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, organizationResponse(), ExportFormat("xml"))
	require.ErrorContains(t, err, "unsupported export format")
}

func TestExportFilename(t *testing.T) {
	response := organizationResponse()
	require.Equal(
		t,
		"partners_organizations_2026-08-22.csv",
		ExportFilename(response, ExportCSV),
	)

	response.SearchType = otlas.SearchProjects
	require.Equal(
		t,
		"partners_projects_2026-08-22.json",
		ExportFilename(response, ExportJSON),
	)
}
