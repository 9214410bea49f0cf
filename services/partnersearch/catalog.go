package partnersearch

// canonical filter values the platform understands. the search
// endpoint accepts free text for most of these, the catalog exists so
// callers can discover and normalize them.
var (
	Countries = []string{
		"Germany", "France", "Spain", "Italy", "Poland", "Netherlands",
		"Belgium", "Greece", "Portugal", "Czech Republic", "Hungary",
		"Sweden", "Austria", "Denmark", "Finland", "Ireland", "Latvia",
		"Lithuania", "Luxembourg", "Malta", "Slovakia", "Slovenia",
		"Estonia", "Croatia", "Cyprus", "Bulgaria", "Romania",
	}

	ProjectTypes = []string{
		"KA152", "KA153", "KA154", "KA210", "KA220", "KA226",
	}

	ActivityTypes = []string{
		"Training course", "Study visit", "Seminar", "Youth exchange",
		"Cooperation project", "Strategic partnership", "Capacity building",
	}

	Themes = []string{
		"Digital skills", "Environment", "Social inclusion", "Education",
		"Democracy", "Health", "Culture", "Sport", "Media literacy",
		"Entrepreneurship", "Employment", "Rural development",
	}

	TargetGroups = []string{
		"Young people", "Youth workers", "Teachers", "Trainers",
		"Students", "Researchers", "Social workers", "Policy makers",
	}

	ExperienceLevels = []string{
		"Newcomer", "Experienced", "Expert",
	}
)

type Parameters struct {
	Countries        []string `json:"countries"`
	ProjectTypes     []string `json:"project_types"`
	ActivityTypes    []string `json:"activity_types"`
	Themes           []string `json:"themes"`
	TargetGroups     []string `json:"target_groups"`
	ExperienceLevels []string `json:"experience_levels"`
}

// SearchParameters reports every known filter value, for parameter
// discovery in the CLI and the MCP server.
func SearchParameters() Parameters {
	return Parameters{
		Countries:        Countries,
		ProjectTypes:     ProjectTypes,
		ActivityTypes:    ActivityTypes,
		Themes:           Themes,
		TargetGroups:     TargetGroups,
		ExperienceLevels: ExperienceLevels,
	}
}
