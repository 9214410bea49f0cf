package otlas

import (
	"fmt"
	"time"
)

// SearchType selects which kind of listing a search targets.
type SearchType string

const (
	SearchOrganizations SearchType = "organizations"
	SearchProjects      SearchType = "projects"
)

var InvalidSearchType = fmt.Errorf("unrecognized search type")

// SearchFilter is the typed input to a search. Facet fields are
// optional, empty means unfiltered. unknown facet values are passed
// through to the platform rather than rejected.
type SearchFilter struct {
	Type            SearchType `json:"type"`
	Query           string     `json:"query"`
	Country         string     `json:"country,omitempty"`
	ActivityType    string     `json:"activity_type,omitempty"`
	Theme           string     `json:"theme,omitempty"`
	TargetGroup     string     `json:"target_group,omitempty"`
	ProjectType     string     `json:"project_type,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	MaxResults      int        `json:"max_results,omitempty"`
}

// RequestDescriptor is a fully-built request: the canonical URL with
// encoded query parameters. building it has no side effects, the same
// filter always produces the same descriptor.
type RequestDescriptor struct {
	Type   SearchType
	URL    string
	Params map[string]string
}

type FetchOutcome string

const (
	FetchSuccess   FetchOutcome = "success"
	FetchRetryable FetchOutcome = "retryable-error"
	FetchFatal     FetchOutcome = "fatal-error"
)

// RawFetchResult reports the terminal attempt of a fetch. Err holds
// the classified failure when Outcome is not FetchSuccess.
type RawFetchResult struct {
	URL        string
	StatusCode int
	Body       string
	Elapsed    time.Duration
	Attempts   int
	Outcome    FetchOutcome
	Err        error

	// server-requested wait parsed from a Retry-After header
	retryAfter time.Duration
}

// ExtractedRecord is the loose, stringly-typed output of markup
// extraction. single-valued fields live in Fields, list-valued ones in
// Lists. values are raw fragment text, normalization happens during
// validation.
type ExtractedRecord struct {
	Type   SearchType
	Fields map[string]string
	Lists  map[string][]string
}

type IssueKind string

const (
	IssueMissingField   IssueKind = "missing-field"
	IssueEmptyAfterTrim IssueKind = "empty-after-trim"
)

// ValidationIssue flags one rejected field on one record.
type ValidationIssue struct {
	Field string
	Kind  IssueKind
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Kind)
}

// Organization is a validated partner organization listing.
type Organization struct {
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	OrganizationType string   `json:"organization_type"`
	ExperienceLevel  string   `json:"experience_level"`
	TargetGroups     []string `json:"target_groups"`
	ActivityTypes    []string `json:"activity_types"`
	ContactInfo      string   `json:"contact_info"`
	ProfileUrl       string   `json:"profile_url"`
	LastActive       string   `json:"last_active"`
}

// ProjectListing is a validated project seeking partners.
type ProjectListing struct {
	Title               string   `json:"title"`
	ProjectType         string   `json:"project_type"`
	Countries           []string `json:"countries_involved"`
	Deadline            string   `json:"deadline"`
	TargetGroups        []string `json:"target_groups"`
	Themes              []string `json:"themes"`
	Description         string   `json:"description"`
	ContactOrganization string   `json:"contact_organization"`
	ProjectUrl          string   `json:"project_url"`
	CreatedDate         string   `json:"created_date"`
}

// SearchResponse is the envelope every search terminates in, failure
// included. immutable once built. exactly one of Organizations or
// Projects is populated, matching SearchType.
type SearchResponse struct {
	SearchType      SearchType        `json:"search_type"`
	QueryParameters map[string]string `json:"query_parameters"`
	TotalResults    int               `json:"total_results"`
	Organizations   []Organization    `json:"organizations,omitempty"`
	Projects        []ProjectListing  `json:"projects,omitempty"`
	SearchTimestamp string            `json:"search_timestamp"`
	Success         bool              `json:"success"`
	ErrorMessage    string            `json:"error_message,omitempty"`
}
