package otlas

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"partnerscout-backend/lib/ratelimit"
	"partnerscout-backend/lib/restyutil"
	"partnerscout-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// platform defaults, overridable per client.
const (
	DefaultBaseUrl    = "https://www.salto-youth.net/tools/otlas-partner-finding"
	DefaultUserAgent  = "PartnerScout/1.0"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxResults = 50
	DefaultMaxRetries = 3

	DefaultRequestInterval = time.Second
	DefaultMaxConcurrent   = 3

	acceptHeader = "text/html,application/xhtml+xml"
)

type ClientOptions struct {
	// BaseUrl is the platform root the search path is appended to.
	BaseUrl   string
	UserAgent string
	Timeout   time.Duration
	// MaxResults caps how many records a single search may return.
	MaxResults int
	// Limiter can be shared across clients to keep one global request
	// budget towards the platform. nil gets a private limiter with the
	// platform defaults.
	Limiter *ratelimit.Limiter
	Retry   RetryPolicy
	// DebugOutput receives a transcript of every exchange with the
	// platform, nil disables transcripts.
	DebugOutput restyutil.InstrumentOutput
}

// Client runs the whole search pipeline against the partner-finding
// platform: build the canonical request, fetch it politely, extract
// result fragments, validate them into typed records.
type Client struct {
	queries   QueryBuilder
	fetcher   *Fetcher
	extractor Extractor
}

func NewClient(options ClientOptions) (*Client, error) {
	if options.BaseUrl == "" {
		options.BaseUrl = DefaultBaseUrl
	}
	if options.UserAgent == "" {
		options.UserAgent = DefaultUserAgent
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.MaxResults <= 0 {
		options.MaxResults = DefaultMaxResults
	}
	if options.Retry.MaxRetries <= 0 {
		options.Retry.MaxRetries = DefaultMaxRetries
	}
	if options.Limiter == nil {
		options.Limiter = ratelimit.NewLimiter(ratelimit.Options{
			Interval:      DefaultRequestInterval,
			MaxConcurrent: DefaultMaxConcurrent,
		})
	}

	base, err := url.Parse(options.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", options.BaseUrl, err)
	}

	client := resty.New().
		SetHeader("User-Agent", options.UserAgent).
		SetHeader("Accept", acceptHeader).
		SetTimeout(options.Timeout)
	if options.DebugOutput != nil {
		restyutil.InstrumentClient(client, tracer, options.DebugOutput)
	} else {
		telemetry.InstrumentResty(client, "partnerscout.lib.scrapers.otlas")
	}

	return &Client{
		queries:   NewQueryBuilder(base, options.MaxResults),
		fetcher:   NewFetcher(client, options.Limiter, options.Retry),
		extractor: NewExtractor(base),
	}, nil
}

// Describe exposes the canonical request for a filter without
// executing it. callers use the descriptor URL as a cache key.
func (c *Client) Describe(filter SearchFilter) (RequestDescriptor, error) {
	return c.queries.Build(filter)
}

// Search runs the pipeline end to end. it never returns an error:
// failures come back as a response with Success false and the cause in
// ErrorMessage, so every caller gets a well-formed envelope to relay.
func (c *Client) Search(ctx context.Context, filter SearchFilter) SearchResponse {
	ctx, span := tracer.Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.type", string(filter.Type)),
		attribute.String("search.query", filter.Query),
	))
	defer span.End()

	descriptor, err := c.queries.Build(filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "building search request failed")
		return failedResponse(filter.Type, map[string]string{}, err.Error())
	}

	result := c.fetcher.Fetch(ctx, descriptor)
	if result.Outcome != FetchSuccess {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "fetch failed")
		return failedResponse(descriptor.Type, descriptor.Params, result.Err.Error())
	}

	records := c.extractor.Extract(result.Body, descriptor.Type, descriptor.Limit())

	response := SearchResponse{
		SearchType:      descriptor.Type,
		QueryParameters: descriptor.Params,
		SearchTimestamp: searchTimestamp(),
		Success:         true,
	}

	var dropped int
	switch descriptor.Type {
	case SearchOrganizations:
		response.Organizations, dropped = validOrganizations(records)
		response.TotalResults = len(response.Organizations)
	case SearchProjects:
		response.Projects, dropped = validProjects(records)
		response.TotalResults = len(response.Projects)
	}

	if dropped > 0 {
		response.ErrorMessage = fmt.Sprintf(
			"dropped %d of %d extracted records failing validation",
			dropped, len(records),
		)
		if response.TotalResults == 0 {
			response.Success = false
			span.SetStatus(codes.Error, response.ErrorMessage)
		}
	}

	span.SetAttributes(
		attribute.Int("search.extracted", len(records)),
		attribute.Int("search.results", response.TotalResults),
		attribute.Int("search.dropped", dropped),
	)
	return response
}

// SearchOrganizations searches for partner organizations, overriding
// whatever type the filter carries.
func (c *Client) SearchOrganizations(ctx context.Context, filter SearchFilter) SearchResponse {
	filter.Type = SearchOrganizations
	return c.Search(ctx, filter)
}

// SearchProjects searches for project listings, overriding whatever
// type the filter carries.
func (c *Client) SearchProjects(ctx context.Context, filter SearchFilter) SearchResponse {
	filter.Type = SearchProjects
	return c.Search(ctx, filter)
}

func validOrganizations(records []ExtractedRecord) ([]Organization, int) {
	organizations := []Organization{}
	dropped := 0
	for _, record := range records {
		organization, issues := ValidateOrganization(record)
		if len(issues) > 0 {
			dropped++
			slog.Debug("dropping organization record", "issues", issues)
			continue
		}
		organizations = append(organizations, organization)
	}
	return organizations, dropped
}

func validProjects(records []ExtractedRecord) ([]ProjectListing, int) {
	projects := []ProjectListing{}
	dropped := 0
	for _, record := range records {
		project, issues := ValidateProject(record)
		if len(issues) > 0 {
			dropped++
			slog.Debug("dropping project record", "issues", issues)
			continue
		}
		projects = append(projects, project)
	}
	return projects, dropped
}

func failedResponse(searchType SearchType, params map[string]string, message string) SearchResponse {
	return SearchResponse{
		SearchType:      searchType,
		QueryParameters: params,
		SearchTimestamp: searchTimestamp(),
		Success:         false,
		ErrorMessage:    message,
	}
}

func searchTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
