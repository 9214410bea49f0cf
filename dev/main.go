// Serves a deterministic stand-in for the partner-finding platform so
// the CLI and MCP server can be exercised offline, and optionally
// scaffolds a partnerscout.json5 pointing at the local server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"partnerscout-backend/lib/telemetry"
	"partnerscout-backend/lib/util/serviceutil"
)

var countryPool = []string{
	"Germany", "France", "Spain", "Italy", "Poland", "Netherlands",
	"Sweden", "Austria", "Portugal", "Czech Republic",
}
var themePool = []string{"Digital skills", "Environment", "Social inclusion", "Culture"}
var activityPool = []string{"Training course", "Youth exchange", "Seminar", "Study visit"}
var targetGroupPool = []string{"Young people", "Youth workers", "Teachers", "Trainers"}
var projectTypePool = []string{"KA152", "KA210", "KA220"}
var experiencePool = []string{"Newcomer", "Experienced", "Expert"}
var orgNamePool = []string{
	"Horizon Youth Network", "Bridge Builders", "Open Minds Association",
	"Green Path Collective", "Digital Futures Lab", "Cultura Viva",
}
var projectTitlePool = []string{
	"Voices of Tomorrow", "Rural Roots Exchange", "Code for Change",
	"Shared Horizons", "Climate Stories",
}

func pick(pool []string, i int) string {
	return pool[i%len(pool)]
}

func organizationFragment(i int, country string) string {
	if country == "" {
		country = pick(countryPool, i)
	}
	name := fmt.Sprintf("%s %02d", pick(orgNamePool, i), i+1)
	// every seventh record is broken on purpose so the validation-drop
	// path stays visible during manual testing
	if i%7 == 6 {
		name = " "
	}
	contact := fmt.Sprintf("contact%02d@example.org", i+1)
	if i%5 == 4 {
		contact = ""
	}
	return fmt.Sprintf(`<div class="org-item">
  <h3 class="org-name">%s</h3>
  <span class="org-country">%s</span>
  <span class="org-type">NGO</span>
  <span class="exp-level">%s</span>
  <span class="target-group">%s</span>
  <span class="target-group">%s</span>
  <span class="activity-type">%s</span>
  <span class="contact-info">%s</span>
  <a class="org-link" href="/organisation/%d">profile</a>
  <span class="last-active">2026-08-%02d</span>
</div>
`,
		name,
		country,
		pick(experiencePool, i),
		pick(targetGroupPool, i),
		pick(targetGroupPool, i+1),
		pick(activityPool, i),
		contact,
		1000+i,
		i%28+1,
	)
}

func projectFragment(i int, country string) string {
	if country == "" {
		country = pick(countryPool, i)
	}
	title := fmt.Sprintf("%s %02d", pick(projectTitlePool, i), i+1)
	if i%9 == 8 {
		title = ""
	}
	return fmt.Sprintf(`<div class="project-item">
  <h3 class="project-title">%s</h3>
  <span class="project-type">%s</span>
  <span class="countries">%s</span>
  <span class="countries">%s</span>
  <span class="deadline">2026-10-%02d</span>
  <span class="target-groups">%s</span>
  <span class="themes">%s</span>
  <p class="description">A %s partnership looking for organizations to co-develop activities.</p>
  <span class="contact-org">%s</span>
  <a class="project-link" href="/project/%d">details</a>
  <span class="created-date">2026-07-%02d</span>
</div>
`,
		title,
		pick(projectTypePool, i),
		country,
		pick(countryPool, i+3),
		i%28+1,
		pick(targetGroupPool, i),
		pick(themePool, i),
		strings.ToLower(pick(themePool, i)),
		pick(orgNamePool, i),
		2000+i,
		i%28+1,
	)
}

func handleSearch(orgCount, projectCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		searchType := query.Get("searchType")
		country := query.Get("country")

		count := orgCount
		if searchType == "projects" {
			count = projectCount
		}
		if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 && limit < count {
			count = limit
		}

		slog.Info(
			"search request",
			"searchType", searchType,
			"search", query.Get("search"),
			"country", country,
			"count", count,
		)

		var page strings.Builder
		page.WriteString("<html><body><div class=\"search-results\">\n")
		for i := 0; i < count; i++ {
			if searchType == "projects" {
				page.WriteString(projectFragment(i, country))
			} else {
				page.WriteString(organizationFragment(i, country))
			}
		}
		page.WriteString("</div></body></html>\n")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page.String()))
	}
}

const configTemplate = `{
	base_url: "http://127.0.0.1:%d",
	request_delay_ms: 50,
	max_concurrent: 3,
	cache_ttl_sec: 60,
}
`

func scaffoldConfig(port int, recreate bool) {
	_, err := os.Stat("partnerscout.json5")
	if err == nil && !recreate {
		slog.Info("partnerscout.json5 already exists, pass -recreate to overwrite it")
		return
	}
	err = os.WriteFile("partnerscout.json5", []byte(fmt.Sprintf(configTemplate, port)), 0644)
	if err != nil {
		serviceutil.Fatal("failed to write partnerscout.json5", err)
	}
	slog.Info("wrote partnerscout.json5", "base_url", fmt.Sprintf("http://127.0.0.1:%d", port))
}

func main() {
	port := flag.Int("port", 8900, "port to serve the fixture platform on")
	orgCount := flag.Int("orgs", 12, "organization fragments per result page")
	projectCount := flag.Int("projects", 8, "project fragments per result page")
	writeConfig := flag.Bool("write-config", false, "scaffold a partnerscout.json5 pointing at this server")
	recreate := flag.Bool("recreate", false, "overwrite an existing partnerscout.json5")
	flag.Parse()

	telemetry.InitSlog(true)

	if *writeConfig {
		scaffoldConfig(*port, *recreate)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", handleSearch(*orgCount, *projectCount))

	slog.Info("serving fixture platform", "port", *port)
	err := http.ListenAndServe(fmt.Sprintf("127.0.0.1:%d", *port), mux)
	if err != nil {
		serviceutil.Fatal("fixture server stopped", err)
	}
}
