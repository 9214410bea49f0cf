package otlas

import (
	"log/slog"
	"net/url"
	"strings"

	"partnerscout-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// fieldRule describes how one field is pulled out of a fragment.
// link switches extraction from element text to the first anchor's
// href, list collects every match instead of the first, maxLen
// truncates runaway text fields.
type fieldRule struct {
	selector string
	list     bool
	link     bool
	maxLen   int
}

var fragmentSelectors = map[SearchType]string{
	SearchOrganizations: "div.org-item",
	SearchProjects:      "div.project-item",
}

var organizationRules = map[string]fieldRule{
	"name":              {selector: ".org-name"},
	"country":           {selector: ".org-country"},
	"organization_type": {selector: ".org-type"},
	"experience_level":  {selector: ".exp-level"},
	"target_groups":     {selector: ".target-group", list: true},
	"activity_types":    {selector: ".activity-type", list: true},
	"contact_info":      {selector: ".contact-info"},
	"profile_url":       {selector: ".org-link", link: true},
	"last_active":       {selector: ".last-active"},
}

var projectRules = map[string]fieldRule{
	"title":                {selector: ".project-title"},
	"project_type":         {selector: ".project-type"},
	"countries_involved":   {selector: ".countries", list: true},
	"deadline":             {selector: ".deadline"},
	"target_groups":        {selector: ".target-groups", list: true},
	"themes":               {selector: ".themes", list: true},
	"description":          {selector: ".description", maxLen: 500},
	"contact_organization": {selector: ".contact-org"},
	"project_url":          {selector: ".project-link", link: true},
	"created_date":         {selector: ".created-date"},
}

func rulesFor(searchType SearchType) map[string]fieldRule {
	if searchType == SearchProjects {
		return projectRules
	}
	return organizationRules
}

// Extractor walks result-page markup and emits one loose record per
// detected fragment. it is pure: no network access, and malformed
// markup degrades to empty fields instead of failing.
type Extractor struct {
	origin *url.URL
}

// origin is the page origin relative profile/project links resolve
// against, nil leaves hrefs untouched.
func NewExtractor(origin *url.URL) Extractor {
	return Extractor{origin: origin}
}

// Extract parses markup leniently and returns up to limit records of
// the given type, in document order. empty markup and markup without
// matching fragments both yield an empty slice.
func (e Extractor) Extract(markup string, searchType SearchType, limit int) []ExtractedRecord {
	records := []ExtractedRecord{}
	if strings.TrimSpace(markup) == "" {
		return records
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("markup did not parse, treating as empty", "err", err)
		return records
	}

	rules := rulesFor(searchType)
	doc.Find(fragmentSelectors[searchType]).EachWithBreak(func(_ int, fragment *goquery.Selection) bool {
		if limit > 0 && len(records) >= limit {
			return false
		}
		records = append(records, e.extractFragment(fragment, searchType, rules))
		return true
	})

	return records
}

func (e Extractor) extractFragment(
	fragment *goquery.Selection,
	searchType SearchType,
	rules map[string]fieldRule,
) ExtractedRecord {
	record := ExtractedRecord{
		Type:   searchType,
		Fields: map[string]string{},
		Lists:  map[string][]string{},
	}

	for field, rule := range rules {
		if rule.list {
			values := []string{}
			fragment.Find(rule.selector).Each(func(_ int, sel *goquery.Selection) {
				text := sel.Text()
				if strings.TrimSpace(text) != "" {
					values = append(values, text)
				}
			})
			record.Lists[field] = values
			continue
		}

		if rule.link {
			href := ""
			if anchors := htmlutil.GetAnchors(fragment.Find(rule.selector)); len(anchors) > 0 {
				href = anchors[0].Href
			}
			record.Fields[field] = htmlutil.ResolveURL(e.origin, href)
			continue
		}

		text := strings.TrimSpace(fragment.Find(rule.selector).First().Text())
		if rule.maxLen > 0 {
			runes := []rune(text)
			if len(runes) > rule.maxLen {
				text = string(runes[:rule.maxLen])
			}
		}
		record.Fields[field] = text
	}

	return record
}
