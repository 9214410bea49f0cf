package commands

import (
	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/spf13/cobra"
)

var projectsFlags struct {
	projectType *string
	theme       *string
	target      *string
	max         *int
	out         outputFlags
}

func init() {
	projectsFlags.projectType = projectsCmd.Flags().StringP("type", "t", "", "Filter by project type (KA152, KA210, ...).")
	projectsFlags.theme = projectsCmd.Flags().String("theme", "", "Filter by theme.")
	projectsFlags.target = projectsCmd.Flags().String("target", "", "Filter by target group.")
	projectsFlags.max = projectsCmd.Flags().IntP("max", "m", 20, "Maximum number of results.")
	projectsFlags.out = registerOutputFlags(projectsCmd)
	rootCmd.AddCommand(projectsCmd)
}

var projectsCmd = &cobra.Command{
	Use:   "projects <query>",
	Short: "Search for project listings that are looking for partners.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		response := newService().SearchProjects(cmd.Context(), otlas.SearchFilter{
			Query:       args[0],
			ProjectType: *projectsFlags.projectType,
			Theme:       *projectsFlags.theme,
			TargetGroup: *projectsFlags.target,
			MaxResults:  *projectsFlags.max,
		})
		handleResponse(response, projectsFlags.out)
	},
}
