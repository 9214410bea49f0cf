package partnersearch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"partnerscout-backend/lib/scrapers/otlas"
)

// ExportFormat selects the wire shape of exported search results.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

var organizationHeaders = []string{
	"Name", "Country", "Type", "Experience",
	"Target Groups", "Activity Types", "Profile URL",
}

var projectHeaders = []string{
	"Title", "Type", "Countries", "Deadline",
	"Themes", "Contact Org", "Project URL",
}

// ExportFilename derives the conventional file name for a response:
// the search type plus the date the search ran.
func ExportFilename(response otlas.SearchResponse, format ExportFormat) string {
	date, _, _ := strings.Cut(response.SearchTimestamp, "T")
	return fmt.Sprintf("partners_%s_%s.%s", response.SearchType, date, format)
}

// Export writes the response to w in the requested format.
func Export(w io.Writer, response otlas.SearchResponse, format ExportFormat) error {
	switch format {
	case ExportJSON:
		return exportJSON(w, response)
	case ExportCSV:
		return exportCSV(w, response)
	default:
		return fmt.Errorf("unsupported export format %q", string(format))
	}
}

func exportJSON(w io.Writer, response otlas.SearchResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func exportCSV(w io.Writer, response otlas.SearchResponse) error {
	writer := csv.NewWriter(w)

	if response.SearchType == otlas.SearchProjects {
		if err := writer.Write(projectHeaders); err != nil {
			return err
		}
		for _, project := range response.Projects {
			err := writer.Write([]string{
				project.Title,
				project.ProjectType,
				strings.Join(project.Countries, "; "),
				project.Deadline,
				strings.Join(project.Themes, "; "),
				project.ContactOrganization,
				project.ProjectUrl,
			})
			if err != nil {
				return err
			}
		}
	} else {
		if err := writer.Write(organizationHeaders); err != nil {
			return err
		}
		for _, organization := range response.Organizations {
			err := writer.Write([]string{
				organization.Name,
				organization.Country,
				organization.OrganizationType,
				organization.ExperienceLevel,
				strings.Join(organization.TargetGroups, "; "),
				strings.Join(organization.ActivityTypes, "; "),
				organization.ProfileUrl,
			})
			if err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
