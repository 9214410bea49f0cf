package commands

import (
	"fmt"
	"os"
	"strings"

	"partnerscout-backend/cmd/partnerscout-cli/utils"
	"partnerscout-backend/lib/scrapers/otlas"
	"partnerscout-backend/lib/util/serviceutil"
	"partnerscout-backend/services/partnersearch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type outputFlags struct {
	export *bool
	format *string
	output *string
}

func registerOutputFlags(cmd *cobra.Command) outputFlags {
	return outputFlags{
		export: cmd.Flags().BoolP("export", "e", false, "Write results to a file."),
		format: cmd.Flags().StringP("format", "f", "table", "Output format: table, json or csv."),
		output: cmd.Flags().StringP("output", "o", "", "Output file path, derived from the search when empty."),
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// previews keep table rows narrow, the full lists are in json/csv output.
func listPreview(values []string) string {
	if len(values) > 2 {
		return strings.Join(values[:2], ", ") + "..."
	}
	return strings.Join(values, ", ")
}

func renderOrganizationsTable(organizations []otlas.Organization) {
	t := utils.NewTable()
	t.SetTitle("Partner Organizations")
	t.AppendHeader(table.Row{"Name", "Country", "Type", "Experience", "Target Groups"})
	for _, organization := range organizations {
		t.AppendRow(table.Row{
			truncate(organization.Name, 30),
			organization.Country,
			organization.OrganizationType,
			organization.ExperienceLevel,
			listPreview(organization.TargetGroups),
		})
	}
	t.Render()
}

func renderProjectsTable(projects []otlas.ProjectListing) {
	t := utils.NewTable()
	t.SetTitle("Project Opportunities")
	t.AppendHeader(table.Row{"Title", "Type", "Countries", "Deadline", "Themes"})
	for _, project := range projects {
		t.AppendRow(table.Row{
			truncate(project.Title, 35),
			project.ProjectType,
			listPreview(project.Countries),
			project.Deadline,
			listPreview(project.Themes),
		})
	}
	t.Render()
}

func renderResponse(response otlas.SearchResponse, format string) {
	switch format {
	case "json":
		err := partnersearch.Export(os.Stdout, response, partnersearch.ExportJSON)
		if err != nil {
			serviceutil.Fatal("failed to render results", err)
		}
	case "csv":
		err := partnersearch.Export(os.Stdout, response, partnersearch.ExportCSV)
		if err != nil {
			serviceutil.Fatal("failed to render results", err)
		}
	default:
		if response.SearchType == otlas.SearchProjects {
			renderProjectsTable(response.Projects)
		} else {
			renderOrganizationsTable(response.Organizations)
		}
	}
}

func handleResponse(response otlas.SearchResponse, flags outputFlags) {
	if !response.Success {
		fmt.Fprintf(os.Stderr, "search failed: %s\n", response.ErrorMessage)
		os.Exit(1)
	}
	if response.TotalResults == 0 {
		fmt.Println("No results matched your criteria.")
		suggestAlternatives(response.SearchType)
		return
	}

	renderResponse(response, *flags.format)
	if response.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", response.ErrorMessage)
	}
	if *flags.export {
		exportResponse(response, flags)
	}
}

// table output exports as json, the file formats map through directly.
func exportResponse(response otlas.SearchResponse, flags outputFlags) {
	format := partnersearch.ExportFormat(*flags.format)
	if format != partnersearch.ExportCSV {
		format = partnersearch.ExportJSON
	}

	path := *flags.output
	if path == "" {
		path = partnersearch.ExportFilename(response, format)
	}

	file, err := os.Create(path)
	if err != nil {
		serviceutil.Fatal("failed to create export file", err)
	}
	defer file.Close()

	if err := partnersearch.Export(file, response, format); err != nil {
		serviceutil.Fatal("failed to export results", err)
	}
	fmt.Printf("Results exported to %s\n", path)
}

func suggestAlternatives(searchType otlas.SearchType) {
	fmt.Println("Try these suggestions:")
	if searchType == otlas.SearchProjects {
		fmt.Println("- Check for recent project postings")
		fmt.Println("- Try different project types (KA152, KA210, ...)")
		fmt.Println("- Search with broader themes")
		return
	}
	fmt.Println("- Broaden your search terms")
	fmt.Println("- Try searching without the country filter")
	fmt.Println("- Use more general activity types")
}
