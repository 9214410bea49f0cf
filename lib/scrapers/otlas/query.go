package otlas

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// QueryBuilder turns a SearchFilter into the canonical request
// descriptor for the platform's search endpoint. Build is pure: no
// network, no clock, no mutation of the filter.
type QueryBuilder struct {
	baseUrl    *url.URL
	maxResults int
}

func NewQueryBuilder(baseUrl *url.URL, maxResults int) QueryBuilder {
	if maxResults < 1 {
		maxResults = 1
	}
	return QueryBuilder{
		baseUrl:    baseUrl,
		maxResults: maxResults,
	}
}

// the platform folds descriptive facets into the free-text search term,
// only country and projectType exist as dedicated parameters.
func (b QueryBuilder) searchTerm(filter SearchFilter) string {
	parts := []string{strings.TrimSpace(filter.Query)}
	for _, facet := range []string{
		filter.ActivityType,
		filter.Theme,
		filter.TargetGroup,
		filter.ExperienceLevel,
	} {
		facet = strings.TrimSpace(facet)
		if facet != "" {
			parts = append(parts, facet)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (b QueryBuilder) Build(filter SearchFilter) (RequestDescriptor, error) {
	switch filter.Type {
	case SearchOrganizations, SearchProjects:
	default:
		return RequestDescriptor{}, fmt.Errorf(
			"%w: %q", InvalidSearchType, string(filter.Type),
		)
	}

	limit := filter.MaxResults
	if limit < 1 {
		limit = b.maxResults
	}
	if limit > b.maxResults {
		slog.Debug(
			"clamping result cap",
			"requested", filter.MaxResults,
			"max", b.maxResults,
		)
		limit = b.maxResults
	}

	query := url.Values{}
	query.Set("search", b.searchTerm(filter))
	query.Set("searchType", string(filter.Type))
	query.Set("limit", strconv.Itoa(limit))

	if country := strings.TrimSpace(filter.Country); country != "" {
		query.Set("country", country)
	}
	if filter.Type == SearchProjects {
		if projectType := strings.TrimSpace(filter.ProjectType); projectType != "" {
			query.Set("projectType", projectType)
		}
	}

	link := *b.baseUrl
	link.Path = strings.TrimSuffix(link.Path, "/") + "/search"
	link.RawQuery = query.Encode()

	params := map[string]string{}
	for key := range query {
		params[key] = query.Get(key)
	}

	return RequestDescriptor{
		Type:   filter.Type,
		URL:    link.String(),
		Params: params,
	}, nil
}

// Limit reports the effective result cap the descriptor carries.
func (d RequestDescriptor) Limit() int {
	limit, err := strconv.Atoi(d.Params["limit"])
	if err != nil || limit < 1 {
		return 1
	}
	return limit
}
