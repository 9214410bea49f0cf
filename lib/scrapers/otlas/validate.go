package otlas

import (
	"partnerscout-backend/lib/htmlutil"
	"partnerscout-backend/lib/textutil"
)

// unknownValue stands in for date-ish and activity fields the result
// page did not carry, so consumers never have to nil-check them.
const unknownValue = "unknown"

func cleanField(record ExtractedRecord, field string) string {
	return htmlutil.CleanText(record.Fields[field])
}

func fieldOrUnknown(record ExtractedRecord, field string) string {
	if value := cleanField(record, field); value != "" {
		return value
	}
	return unknownValue
}

// cleanList normalizes every entry and drops blanks and duplicates.
// first occurrence wins, comparison ignores case and whitespace.
func cleanList(values []string) []string {
	cleaned := []string{}
	seen := map[string]bool{}
	for _, value := range values {
		text := htmlutil.CleanText(value)
		if text == "" {
			continue
		}
		key := textutil.NormalizeName(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, text)
	}
	return cleaned
}

func requireFields(record ExtractedRecord, fields ...string) []ValidationIssue {
	issues := []ValidationIssue{}
	for _, field := range fields {
		raw, ok := record.Fields[field]
		if !ok {
			issues = append(issues, ValidationIssue{Field: field, Kind: IssueMissingField})
			continue
		}
		if htmlutil.CleanText(raw) == "" {
			issues = append(issues, ValidationIssue{Field: field, Kind: IssueEmptyAfterTrim})
		}
	}
	return issues
}

func requireList(record ExtractedRecord, field string) []ValidationIssue {
	raw, ok := record.Lists[field]
	if !ok || len(raw) == 0 {
		return []ValidationIssue{{Field: field, Kind: IssueMissingField}}
	}
	if len(cleanList(raw)) == 0 {
		return []ValidationIssue{{Field: field, Kind: IssueEmptyAfterTrim}}
	}
	return nil
}

// ValidateOrganization normalizes an extracted record into an
// Organization. the record is usable only when the returned issue
// list is empty, but the struct is filled out either way.
func ValidateOrganization(record ExtractedRecord) (Organization, []ValidationIssue) {
	issues := requireFields(record, "name", "country", "organization_type")

	organization := Organization{
		Name:             cleanField(record, "name"),
		Country:          cleanField(record, "country"),
		OrganizationType: cleanField(record, "organization_type"),
		ExperienceLevel:  fieldOrUnknown(record, "experience_level"),
		TargetGroups:     cleanList(record.Lists["target_groups"]),
		ActivityTypes:    cleanList(record.Lists["activity_types"]),
		ContactInfo:      cleanField(record, "contact_info"),
		ProfileUrl:       cleanField(record, "profile_url"),
		LastActive:       fieldOrUnknown(record, "last_active"),
	}
	return organization, issues
}

// ValidateProject normalizes an extracted record into a
// ProjectListing, mirroring ValidateOrganization.
func ValidateProject(record ExtractedRecord) (ProjectListing, []ValidationIssue) {
	issues := requireFields(record, "title", "project_type")
	issues = append(issues, requireList(record, "countries_involved")...)

	project := ProjectListing{
		Title:               cleanField(record, "title"),
		ProjectType:         cleanField(record, "project_type"),
		Countries:           cleanList(record.Lists["countries_involved"]),
		Deadline:            fieldOrUnknown(record, "deadline"),
		TargetGroups:        cleanList(record.Lists["target_groups"]),
		Themes:              cleanList(record.Lists["themes"]),
		Description:         cleanField(record, "description"),
		ContactOrganization: cleanField(record, "contact_organization"),
		ProjectUrl:          cleanField(record, "project_url"),
		CreatedDate:         fieldOrUnknown(record, "created_date"),
	}
	return project, issues
}
