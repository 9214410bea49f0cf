package commands

import (
	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/spf13/cobra"
)

var searchFlags struct {
	force *string
	max   *int
	out   outputFlags
}

func init() {
	searchFlags.force = searchCmd.Flags().String("type", "", "Force the search type: organizations or projects.")
	searchFlags.max = searchCmd.Flags().IntP("max", "m", 20, "Maximum number of results.")
	searchFlags.out = registerOutputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Smart search that figures out whether you want partners or projects.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		response := newService().SmartSearch(
			cmd.Context(),
			args[0],
			otlas.SearchType(*searchFlags.force),
			*searchFlags.max,
		)
		handleResponse(response, searchFlags.out)
	},
}
