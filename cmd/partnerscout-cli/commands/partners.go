package commands

import (
	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/spf13/cobra"
)

var partnersFlags struct {
	country  *string
	activity *string
	target   *string
	max      *int
	out      outputFlags
}

func init() {
	partnersFlags.country = partnersCmd.Flags().StringP("country", "c", "", "Filter by country.")
	partnersFlags.activity = partnersCmd.Flags().StringP("activity", "a", "", "Filter by activity type.")
	partnersFlags.target = partnersCmd.Flags().StringP("target", "t", "", "Filter by target group.")
	partnersFlags.max = partnersCmd.Flags().IntP("max", "m", 20, "Maximum number of results.")
	partnersFlags.out = registerOutputFlags(partnersCmd)
	rootCmd.AddCommand(partnersCmd)
}

var partnersCmd = &cobra.Command{
	Use:   "partners <query>",
	Short: "Search for partner organizations.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		response := newService().SearchOrganizations(cmd.Context(), otlas.SearchFilter{
			Query:        args[0],
			Country:      *partnersFlags.country,
			ActivityType: *partnersFlags.activity,
			TargetGroup:  *partnersFlags.target,
			MaxResults:   *partnersFlags.max,
		})
		handleResponse(response, partnersFlags.out)
	},
}
