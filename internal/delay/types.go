package delay

import (
	"fmt"
	"strings"
	"time"
)

// UnknownName is the display name used for records without a Name field.
const UnknownName = "Unknown"

// Record is one deployment entry in the collection. Field keys mirror the
// deployments.json produced by the release pipeline, PascalCase included.
// DelayDays is derived by the engine and omitted until it has been computed.
type Record struct {
	Name                  string `json:"Name,omitempty"`
	Type                  string `json:"Type,omitempty"`
	PlannedDeploymentDate string `json:"PlannedDeploymentDate,omitempty"`
	DeploymentDate        string `json:"DeploymentDate,omitempty"`
	DelayDays             *int   `json:"DelayDays,omitempty"`
}

// DisplayName returns the record's Name, or UnknownName when absent.
func (r *Record) DisplayName() string {
	if r.Name == "" {
		return UnknownName
	}
	return r.Name
}

// Kind is the deployment category derived from the Type field.
type Kind string

const (
	KindSprint Kind = "sprint"
	KindHotfix Kind = "hotfix"
	KindOther  Kind = "other"
)

// KindOf classifies a Type value case-insensitively. Anything that is not
// "sprint" or "hotfix" is KindOther and counts in neither bucket.
func KindOf(typ string) Kind {
	switch strings.ToLower(typ) {
	case "sprint":
		return KindSprint
	case "hotfix":
		return KindHotfix
	default:
		return KindOther
	}
}

// Collection is the whole deployments.json document: an ordered record list
// plus the timestamp of the last successful calculator run.
type Collection struct {
	Deployments []Record `json:"deployments"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
}

// timestampLayouts are tried in order after the trailing "Z" has been
// normalized to an explicit offset. Fractional seconds are optional.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601-like timestamp as the pipeline writes
// them. A trailing "Z" UTC designator is normalized to "+00:00" first;
// offset-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	norm := s
	if strings.HasSuffix(norm, "Z") {
		norm = strings.TrimSuffix(norm, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, norm, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
