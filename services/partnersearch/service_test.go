package partnersearch

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"partnerscout-backend/lib/scrapers/otlas"
	"partnerscout-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	builder otlas.QueryBuilder
	respond func(filter otlas.SearchFilter) otlas.SearchResponse

	mu      sync.Mutex
	filters []otlas.SearchFilter
}

func newFakeSearcher(t *testing.T, respond func(otlas.SearchFilter) otlas.SearchResponse) *fakeSearcher {
	t.Helper()
	telemetry.SetupForTesting(t, "test:partnersearch")

	base, err := url.Parse("https://www.salto-youth.net/tools/otlas-partner-finding")
	require.NoError(t, err)

	if respond == nil {
		respond = func(filter otlas.SearchFilter) otlas.SearchResponse {
			return otlas.SearchResponse{
				SearchType:      filter.Type,
				QueryParameters: map[string]string{"search": filter.Query},
				Success:         true,
			}
		}
	}
	return &fakeSearcher{
		builder: otlas.NewQueryBuilder(base, 50),
		respond: respond,
	}
}

func (f *fakeSearcher) Describe(filter otlas.SearchFilter) (otlas.RequestDescriptor, error) {
	return f.builder.Build(filter)
}

func (f *fakeSearcher) Search(ctx context.Context, filter otlas.SearchFilter) otlas.SearchResponse {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	return f.respond(filter)
}

func (f *fakeSearcher) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

func (f *fakeSearcher) lastFilter() otlas.SearchFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters[len(f.filters)-1]
}

func TestSearchCachesSuccessfulResponses(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake})
	ctx := context.Background()

	filter := otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: "environment"}
	first := service.Search(ctx, filter)
	second := service.Search(ctx, filter)

	require.True(t, first.Success)
	require.Equal(t, 1, fake.searchCount())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}

	service.Search(ctx, otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: "culture"})
	require.Equal(t, 2, fake.searchCount())
}

func TestSearchDoesNotCacheFailures(t *testing.T) {
	fake := newFakeSearcher(t, func(filter otlas.SearchFilter) otlas.SearchResponse {
		return otlas.SearchResponse{
			SearchType:   filter.Type,
			Success:      false,
			ErrorMessage: "http 503 from upstream",
		}
	})
	service := NewService(Options{Client: fake})
	ctx := context.Background()

	filter := otlas.SearchFilter{Type: otlas.SearchProjects, Query: "environment"}
	service.Search(ctx, filter)
	service.Search(ctx, filter)
	require.Equal(t, 2, fake.searchCount())
}

func TestSearchCacheExpires(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake, CacheTTL: 20 * time.Millisecond})
	ctx := context.Background()

	filter := otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: "environment"}
	service.Search(ctx, filter)
	time.Sleep(50 * time.Millisecond)
	service.Search(ctx, filter)
	require.Equal(t, 2, fake.searchCount())
}

func TestSearchCacheDisabled(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake, CacheSize: -1})
	ctx := context.Background()

	filter := otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: "environment"}
	service.Search(ctx, filter)
	service.Search(ctx, filter)
	require.Equal(t, 2, fake.searchCount())
}

func TestSmartSearchClassifiesOrganizations(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake})

	response := service.SmartSearch(
		context.Background(),
		"partner organizations in Germany with experience with digital skills",
		"", 20,
	)

	require.True(t, response.Success)
	filter := fake.lastFilter()
	require.Equal(t, otlas.SearchOrganizations, filter.Type)
	require.Equal(t, "Germany", filter.Country)
	require.Equal(t, "Digital skills", filter.Theme)
	require.Equal(t, 20, filter.MaxResults)
}

func TestSmartSearchClassifiesProjects(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake})

	service.SmartSearch(
		context.Background(),
		"KA210 opportunities to join before the deadline",
		"", 0,
	)

	filter := fake.lastFilter()
	require.Equal(t, otlas.SearchProjects, filter.Type)
	require.Equal(t, "KA210", filter.ProjectType)
}

func TestSmartSearchForcedTypeWins(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake})

	service.SmartSearch(
		context.Background(),
		"KA210 opportunities to join before the deadline",
		otlas.SearchOrganizations, 0,
	)

	require.Equal(t, otlas.SearchOrganizations, fake.lastFilter().Type)
}

func TestBatchSearchPreservesOrder(t *testing.T) {
	var current, peak atomic.Int64
	fake := newFakeSearcher(t, func(filter otlas.SearchFilter) otlas.SearchResponse {
		cur := current.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)

		return otlas.SearchResponse{
			SearchType:      filter.Type,
			QueryParameters: map[string]string{"search": filter.Query},
			Success:         true,
		}
	})
	service := NewService(Options{Client: fake, CacheSize: -1, BatchConcurrency: 2})

	queries := []string{"environment", "culture", "sport", "health", "democracy"}
	filters := make([]otlas.SearchFilter, len(queries))
	for i, query := range queries {
		filters[i] = otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: query}
	}

	responses := service.BatchSearch(context.Background(), filters)

	require.Len(t, responses, len(filters))
	require.Equal(t, len(filters), fake.searchCount())
	require.LessOrEqual(t, peak.Load(), int64(2))
	for i, response := range responses {
		require.True(t, response.Success)
		require.Equal(t, queries[i], response.QueryParameters["search"])
	}
}

func TestBatchSearchSharesCache(t *testing.T) {
	fake := newFakeSearcher(t, nil)
	service := NewService(Options{Client: fake, BatchConcurrency: 1})

	filter := otlas.SearchFilter{Type: otlas.SearchOrganizations, Query: "environment"}
	responses := service.BatchSearch(
		context.Background(),
		[]otlas.SearchFilter{filter, filter, filter},
	)

	require.Len(t, responses, 3)
	require.Equal(t, 1, fake.searchCount())
	if diff := cmp.Diff(responses[0], responses[2]); diff != "" {
		t.Fatal(diff)
	}
}
