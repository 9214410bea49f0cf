package partnersearch

import (
	"context"
	"log/slog"
	"time"

	"partnerscout-backend/lib/scrapers/otlas"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("partnerscout.services.partnersearch")

// Searcher is the slice of the platform client the service needs.
type Searcher interface {
	Describe(filter otlas.SearchFilter) (otlas.RequestDescriptor, error)
	Search(ctx context.Context, filter otlas.SearchFilter) otlas.SearchResponse
}

const (
	DefaultCacheSize        = 128
	DefaultCacheTTL         = time.Hour
	DefaultBatchConcurrency = 3
)

type Options struct {
	Client Searcher
	// CacheSize of 0 gets the default, negative disables caching.
	CacheSize int
	CacheTTL  time.Duration
	// BatchConcurrency caps how many searches BatchSearch runs at once.
	BatchConcurrency int
}

// Service wraps the platform client with response caching, natural
// language entry points and concurrent batch searches.
type Service struct {
	client      Searcher
	cache       *expirable.LRU[string, otlas.SearchResponse]
	concurrency int
}

func NewService(options Options) *Service {
	if options.CacheSize == 0 {
		options.CacheSize = DefaultCacheSize
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = DefaultCacheTTL
	}
	if options.BatchConcurrency <= 0 {
		options.BatchConcurrency = DefaultBatchConcurrency
	}

	var cache *expirable.LRU[string, otlas.SearchResponse]
	if options.CacheSize > 0 {
		cache = expirable.NewLRU[string, otlas.SearchResponse](
			options.CacheSize, nil, options.CacheTTL,
		)
	}

	return &Service{
		client:      options.Client,
		cache:       cache,
		concurrency: options.BatchConcurrency,
	}
}

// Search runs one search through the cache. only successful responses
// are cached, keyed by the canonical request URL, so repeating a query
// within the TTL costs no request budget.
func (s *Service) Search(ctx context.Context, filter otlas.SearchFilter) otlas.SearchResponse {
	ctx, span := tracer.Start(ctx, "Search", trace.WithAttributes(
		attribute.String("search.type", string(filter.Type)),
	))
	defer span.End()

	descriptor, err := s.client.Describe(filter)
	if err != nil {
		// the client reports the same failure as an envelope
		return s.client.Search(ctx, filter)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(descriptor.URL); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			slog.Debug("search cache hit", "url", descriptor.URL)
			return cached
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	response := s.client.Search(ctx, filter)
	if s.cache != nil && response.Success {
		s.cache.Add(descriptor.URL, response)
	}
	return response
}

// SearchOrganizations searches for partner organizations, overriding
// whatever type the filter carries.
func (s *Service) SearchOrganizations(ctx context.Context, filter otlas.SearchFilter) otlas.SearchResponse {
	filter.Type = otlas.SearchOrganizations
	return s.Search(ctx, filter)
}

// SearchProjects searches for project listings, overriding whatever
// type the filter carries.
func (s *Service) SearchProjects(ctx context.Context, filter otlas.SearchFilter) otlas.SearchResponse {
	filter.Type = otlas.SearchProjects
	return s.Search(ctx, filter)
}

// SmartSearch interprets a natural language request: classify whether
// it wants organizations or projects, pull structured filters out of
// the text, then search. force overrides the classification when the
// caller already knows what it wants, maxResults of 0 takes the client
// default.
func (s *Service) SmartSearch(ctx context.Context, query string, force otlas.SearchType, maxResults int) otlas.SearchResponse {
	ctx, span := tracer.Start(ctx, "SmartSearch", trace.WithAttributes(
		attribute.String("search.query", query),
	))
	defer span.End()

	filter := ExtractFilter(query)
	filter.MaxResults = maxResults
	switch force {
	case otlas.SearchOrganizations, otlas.SearchProjects:
		filter.Type = force
	default:
		intent := ClassifyIntent(query)
		filter.Type = intent.Type
		span.SetAttributes(
			attribute.String("intent.type", string(intent.Type)),
			attribute.Float64("intent.confidence", intent.Confidence),
		)
		slog.Debug(
			"classified search intent",
			"type", intent.Type,
			"confidence", intent.Confidence,
			"partnerScore", intent.PartnerScore,
			"projectScore", intent.ProjectScore,
		)
	}

	return s.Search(ctx, filter)
}

// BatchSearch runs every filter with a bounded amount of parallelism
// and returns responses in filter order. a cancelled context fails the
// remaining searches fast instead of abandoning their slots.
func (s *Service) BatchSearch(ctx context.Context, filters []otlas.SearchFilter) []otlas.SearchResponse {
	ctx, span := tracer.Start(ctx, "BatchSearch", trace.WithAttributes(
		attribute.Int("search.batch", len(filters)),
	))
	defer span.End()

	responses := make([]otlas.SearchResponse, len(filters))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for i, filter := range filters {
		group.Go(func() error {
			responses[i] = s.Search(ctx, filter)
			return nil
		})
	}
	// Search never fails, the group exists purely for the concurrency cap
	_ = group.Wait()

	return responses
}
