package dataprocessing

import (
	"fmt"
	"strings"

	"attendcli/pkg/contracts/domain"
)

// Canonical field names shared by every source kind. Downstream code only
// ever sees these; raw header strings stay inside this file.
const (
	FieldDriverIdentifier = "driverIdentifier"
	FieldTimestamp        = "timestamp"
	FieldDate             = "date"
	FieldJobSite          = "jobSite"
	FieldHoursOnSite      = "hoursOnSite"
)

// fieldSpec declares the acceptable header aliases for one canonical field
// of one source kind. Aliases are listed in priority order; the first one
// present in the file wins.
type fieldSpec struct {
	field    string
	aliases  []string
	required bool
}

// sourceSchemas is the per-source alias table. The upstream exports rename
// columns between versions (EventDateTime vs EventDateTimex, Location vs
// Locationx), so every field carries the spellings seen in the wild.
var sourceSchemas = map[domain.SourceKind][]fieldSpec{
	domain.SourceLocationHistory: {
		{field: FieldDriverIdentifier, aliases: []string{"Driver", "Driver Name", "Contact"}, required: true},
		{field: FieldTimestamp, aliases: []string{"EventDateTime", "EventDateTimex", "Event Time"}, required: true},
		{field: FieldJobSite, aliases: []string{"Location", "Locationx", "Job Site"}, required: true},
	},
	domain.SourceActivityLog: {
		{field: FieldDriverIdentifier, aliases: []string{"Contact", "Driver", "Driver Name"}, required: true},
		{field: FieldTimestamp, aliases: []string{"EventDateTime", "EventDateTimex", "Activity Time"}, required: true},
		{field: FieldJobSite, aliases: []string{"Location", "Locationx", "Job Site"}, required: true},
	},
	domain.SourceTimeOnSite: {
		{field: FieldDriverIdentifier, aliases: []string{"Driver", "Driver Name", "Contact"}, required: true},
		{field: FieldDate, aliases: []string{"Date", "Day"}, required: true},
		{field: FieldHoursOnSite, aliases: []string{"Hours On Site", "HoursOnSite", "Hours", "Time On Site"}, required: true},
		{field: FieldJobSite, aliases: []string{"Location", "Locationx", "Site"}, required: true},
	},
	domain.SourceSpeeding: {
		{field: FieldDriverIdentifier, aliases: []string{"Driver", "Contact", "Driver Name"}, required: true},
		{field: FieldTimestamp, aliases: []string{"EventDateTime", "EventDateTimex", "Time"}, required: true},
		{field: FieldJobSite, aliases: []string{"Location", "Locationx"}, required: false},
	},
}

// FieldMap maps canonical field names to the header strings actually
// present in one file. Resolved once per file at load time.
type FieldMap map[string]string

// Has reports whether the file carries the given canonical field.
func (m FieldMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// MissingRequiredFieldError is fatal for the affected file: no acceptable
// header alias was found for a mandatory canonical field.
type MissingRequiredFieldError struct {
	Source domain.SourceKind
	Field  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("source %s: no header matches required field %q", e.Source, e.Field)
}

// ResolveSchema maps the header row of a source file to the canonical field
// set for its source kind. Matching is exact after trimming, case
// insensitive, first alias in declared order wins. Pure function of its
// inputs.
func ResolveSchema(kind domain.SourceKind, headers []string) (FieldMap, error) {
	specs, ok := sourceSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := make(FieldMap, len(specs))
	for _, spec := range specs {
		header, found := matchAlias(spec.aliases, headers, normalized)
		if found {
			mapping[spec.field] = header
			continue
		}
		if spec.required {
			return nil, &MissingRequiredFieldError{Source: kind, Field: spec.field}
		}
	}

	return mapping, nil
}

// matchAlias returns the original header string matching the first alias
// present in the header row.
func matchAlias(aliases, headers, normalized []string) (string, bool) {
	for _, alias := range aliases {
		want := strings.ToLower(alias)
		for i, h := range normalized {
			if h == want {
				return headers[i], true
			}
		}
	}
	return "", false
}
