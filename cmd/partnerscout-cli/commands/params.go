package commands

import (
	"partnerscout-backend/cmd/partnerscout-cli/utils"
	"partnerscout-backend/services/partnersearch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(paramsCmd)
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the filter values the platform understands.",
	Run: func(cmd *cobra.Command, args []string) {
		parameters := partnersearch.SearchParameters()
		columns := []struct {
			name   string
			values []string
		}{
			{"Country", parameters.Countries},
			{"Project Type", parameters.ProjectTypes},
			{"Activity Type", parameters.ActivityTypes},
			{"Theme", parameters.Themes},
			{"Target Group", parameters.TargetGroups},
			{"Experience", parameters.ExperienceLevels},
		}

		header := table.Row{}
		maxRows := 0
		for _, column := range columns {
			header = append(header, column.name)
			if len(column.values) > maxRows {
				maxRows = len(column.values)
			}
		}

		rows := make([]table.Row, maxRows)
		for i := range rows {
			rows[i] = make(table.Row, len(columns))
			for j, column := range columns {
				if i < len(column.values) {
					rows[i][j] = column.values[i]
				} else {
					rows[i][j] = ""
				}
			}
		}

		t := utils.NewTable()
		t.AppendHeader(header)
		t.AppendRows(rows)
		t.Render()
	},
}
