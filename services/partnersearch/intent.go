package partnersearch

import (
	"strings"

	"partnerscout-backend/lib/scrapers/otlas"
	"partnerscout-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// keyword families that signal what a request is after. scoring is a
// plain presence count and ties fall back to organizations.
var partnerKeywords = []string{
	"partner", "organization", "ngo", "collaborator", "suitable",
	"who can help", "organizations in", "experience with",
}

var projectKeywords = []string{
	"project", "opportunity", "call", "deadline", "join", "participate",
	"ka152", "ka153", "ka210", "ka220", "looking for partners",
}

const countrySimilarity = 0.9

// Intent is the inferred purpose of a natural language request.
type Intent struct {
	Type         otlas.SearchType
	Confidence   float64
	PartnerScore int
	ProjectScore int
}

// ClassifyIntent decides between an organization and a project search
// from keyword evidence alone.
func ClassifyIntent(query string) Intent {
	partnerScore := textutil.CountMatches(query, partnerKeywords)
	projectScore := textutil.CountMatches(query, projectKeywords)

	intent := Intent{
		Type:         otlas.SearchOrganizations,
		Confidence:   0.5,
		PartnerScore: partnerScore,
		ProjectScore: projectScore,
	}
	total := float64(partnerScore + projectScore + 1)
	if projectScore > partnerScore {
		intent.Type = otlas.SearchProjects
		intent.Confidence = float64(projectScore) / total
	} else if partnerScore > projectScore {
		intent.Confidence = float64(partnerScore) / total
	}
	return intent
}

type catalogHint struct {
	words []string
	value string
}

// first hit wins, so more specific hints go before generic ones.
var themeHints = []catalogHint{
	{words: []string{"digital", "technology", "tech"}, value: "Digital skills"},
	{words: []string{"environment", "green", "climate"}, value: "Environment"},
	{words: []string{"inclusion", "inclusive", "disability"}, value: "Social inclusion"},
}

var targetGroupHints = []catalogHint{
	{words: []string{"youth worker", "trainer"}, value: "Youth workers"},
	{words: []string{"young people"}, value: "Young people"},
	{words: []string{"teacher"}, value: "Teachers"},
}

func firstHint(query string, hints []catalogHint) string {
	for _, hint := range hints {
		if textutil.MatchName(query, hint.words) {
			return hint.value
		}
	}
	return ""
}

// matchCountry finds a catalog country mentioned in the query. an
// exact substring wins, otherwise single query words fuzzy-match
// against country names so small typos still resolve.
func matchCountry(lower string) string {
	for _, country := range Countries {
		if strings.Contains(lower, strings.ToLower(country)) {
			return country
		}
	}

	words := strings.Fields(lower)
	best := ""
	bestScore := 0.0
	for _, country := range Countries {
		candidate := strings.Fields(strings.ToLower(country))[0]
		for _, word := range words {
			score := matchr.JaroWinkler(word, candidate, false)
			if score >= countrySimilarity && score > bestScore {
				bestScore = score
				best = country
			}
		}
	}
	return best
}

func matchProjectType(lower string) string {
	for _, projectType := range ProjectTypes {
		if strings.Contains(lower, strings.ToLower(projectType)) {
			return projectType
		}
	}
	return ""
}

// ExtractFilter pulls structured parameters out of a natural language
// query. the query text itself stays the search term, extraction only
// fills the dedicated filter fields.
func ExtractFilter(query string) otlas.SearchFilter {
	lower := strings.ToLower(query)
	return otlas.SearchFilter{
		Query:       strings.TrimSpace(query),
		Country:     matchCountry(lower),
		ProjectType: matchProjectType(lower),
		Theme:       firstHint(query, themeHints),
		TargetGroup: firstHint(query, targetGroupHints),
	}
}
