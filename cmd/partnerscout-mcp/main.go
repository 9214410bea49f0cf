package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"partnerscout-backend/lib/configutil"
	"partnerscout-backend/lib/ratelimit"
	"partnerscout-backend/lib/restyutil"
	"partnerscout-backend/lib/scrapers/otlas"
	"partnerscout-backend/lib/telemetry"
	"partnerscout-backend/lib/util/serviceutil"
	"partnerscout-backend/services/partnersearch"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config tunes the platform client. it is read from partnerscout.json5
// in the working directory, a missing file keeps every default.
type Config struct {
	BaseUrl           string `json:"base_url"`
	UserAgent         string `json:"user_agent"`
	TimeoutSec        int    `json:"timeout_sec"`
	MaxRetries        int    `json:"max_retries"`
	BackoffBaseMs     int    `json:"backoff_base_ms"`
	BackoffCapMs      int    `json:"backoff_cap_ms"`
	RequestDelayMs    int    `json:"request_delay_ms"`
	MaxConcurrent     int    `json:"max_concurrent"`
	AcquireTimeoutSec int    `json:"acquire_timeout_sec"`
	MaxResults        int    `json:"max_results"`
	CacheTtlSec       int    `json:"cache_ttl_sec"`
	// DebugHttpDir dumps a transcript of every platform exchange into
	// this directory when set.
	DebugHttpDir string `json:"debug_http_dir"`
}

type partnerSearchInput struct {
	Query           string `json:"query" jsonschema:"free-text description of the partners you are looking for"`
	Country         string `json:"country,omitempty" jsonschema:"restrict results to organizations from this country"`
	ActivityType    string `json:"activity_type,omitempty" jsonschema:"activity format, e.g. Training course or Youth exchange"`
	Theme           string `json:"theme,omitempty" jsonschema:"project theme, e.g. Digital skills or Environment"`
	TargetGroup     string `json:"target_group,omitempty" jsonschema:"audience the partner should work with"`
	ExperienceLevel string `json:"experience_level,omitempty" jsonschema:"Newcomer, Experienced or Expert"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"result cap, defaults to 20"`
}

type projectSearchInput struct {
	Query         string   `json:"query" jsonschema:"free-text description of the projects you are looking for"`
	ProjectType   string   `json:"project_type,omitempty" jsonschema:"Erasmus+ key action code, e.g. KA152 or KA210"`
	Countries     []string `json:"countries,omitempty" jsonschema:"countries the project should involve"`
	Themes        []string `json:"themes,omitempty" jsonschema:"themes the project should cover"`
	TargetGroup   string   `json:"target_group,omitempty" jsonschema:"audience the project should serve"`
	DeadlineAfter string   `json:"deadline_after,omitempty" jsonschema:"only projects with application deadlines after this date"`
	MaxResults    int      `json:"max_results,omitempty" jsonschema:"result cap, defaults to 20"`
}

type smartSearchInput struct {
	Query           string `json:"query" jsonschema:"free-text search, intent is detected automatically"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"result cap, defaults to 20"`
	ForceSearchType string `json:"force_search_type,omitempty" jsonschema:"organizations or projects, skips intent detection"`
}

type searchParametersInput struct{}

const defaultToolResults = 20

func resultCap(requested int) int {
	if requested < 1 {
		return defaultToolResults
	}
	return requested
}

func firstEntry(values []string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func joinEntries(values []string) string {
	var kept []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}

func registerTools(server *mcp.Server, svc *partnersearch.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_partners",
		Description: "Search the SALTO-YOUTH Otlas platform for partner organizations matching a query and optional facet filters.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input partnerSearchInput) (*mcp.CallToolResult, otlas.SearchResponse, error) {
		response := svc.SearchOrganizations(ctx, otlas.SearchFilter{
			Query:           input.Query,
			Country:         input.Country,
			ActivityType:    input.ActivityType,
			Theme:           input.Theme,
			TargetGroup:     input.TargetGroup,
			ExperienceLevel: input.ExperienceLevel,
			MaxResults:      resultCap(input.MaxResults),
		})
		return nil, response, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_projects",
		Description: "Search the SALTO-YOUTH Otlas platform for project opportunities that are looking for partner organizations.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input projectSearchInput) (*mcp.CallToolResult, otlas.SearchResponse, error) {
		filter := otlas.SearchFilter{
			Query:       input.Query,
			ProjectType: input.ProjectType,
			// the platform takes a single country filter, first listed wins
			Country:     firstEntry(input.Countries),
			Theme:       joinEntries(input.Themes),
			TargetGroup: input.TargetGroup,
			MaxResults:  resultCap(input.MaxResults),
		}
		// no dedicated deadline parameter exists, fold it into the search term
		if deadline := strings.TrimSpace(input.DeadlineAfter); deadline != "" {
			filter.Query = strings.TrimSpace(filter.Query + " deadline after " + deadline)
		}
		response := svc.SearchProjects(ctx, filter)
		return nil, response, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "smart_search",
		Description: "Classify a natural language request as a partner or project search, extract filters from the text and run the matching search.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input smartSearchInput) (*mcp.CallToolResult, otlas.SearchResponse, error) {
		response := svc.SmartSearch(
			ctx,
			input.Query,
			otlas.SearchType(input.ForceSearchType),
			resultCap(input.MaxResults),
		)
		return nil, response, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_search_parameters",
		Description: "List the facet values the search tools understand: countries, project types, activity types, themes, target groups and experience levels.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input searchParametersInput) (*mcp.CallToolResult, partnersearch.Parameters, error) {
		return nil, partnersearch.SearchParameters(), nil
	})
}

func newService(cfg Config) *partnersearch.Service {
	options := otlas.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		UserAgent:  cfg.UserAgent,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		MaxResults: cfg.MaxResults,
		Retry: otlas.RetryPolicy{
			MaxRetries:  cfg.MaxRetries,
			BackoffBase: time.Duration(cfg.BackoffBaseMs) * time.Millisecond,
			BackoffCap:  time.Duration(cfg.BackoffCapMs) * time.Millisecond,
		},
	}
	if cfg.DebugHttpDir != "" {
		options.DebugOutput = restyutil.NewFilesystemOutput(cfg.DebugHttpDir)
	}
	if cfg.RequestDelayMs > 0 || cfg.MaxConcurrent > 0 || cfg.AcquireTimeoutSec > 0 {
		interval := otlas.DefaultRequestInterval
		if cfg.RequestDelayMs > 0 {
			interval = time.Duration(cfg.RequestDelayMs) * time.Millisecond
		}
		concurrent := otlas.DefaultMaxConcurrent
		if cfg.MaxConcurrent > 0 {
			concurrent = cfg.MaxConcurrent
		}
		options.Limiter = ratelimit.NewLimiter(ratelimit.Options{
			Interval:       interval,
			MaxConcurrent:  concurrent,
			AcquireTimeout: time.Duration(cfg.AcquireTimeoutSec) * time.Second,
		})
	}

	client, err := otlas.NewClient(options)
	if err != nil {
		serviceutil.Fatal("failed to initialize search client", err)
	}

	return partnersearch.NewService(partnersearch.Options{
		Client:   client,
		CacheTTL: time.Duration(cfg.CacheTtlSec) * time.Second,
	})
}

func main() {
	ctx := serviceutil.SignalContext()

	// stdout carries the protocol, logs must stay on stderr
	telemetry.InitSlog(false)

	cfg, err := configutil.ReadConfig[Config]("partnerscout.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	err = telemetry.SetupFromEnv(ctx, "partnerscout-mcp")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "partnerscout",
		Version: "1.0.0",
	}, nil)
	registerTools(server, newService(cfg))

	slog.Info("serving mcp over stdio")
	err = server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && ctx.Err() == nil {
		serviceutil.Fatal("mcp server stopped", err)
	}
}
