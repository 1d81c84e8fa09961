package delay

import (
	"fmt"
	"math"
	"time"
)

// Status tier thresholds, in whole days. Negative delays (early deploys) fall
// through to TierOK.
const (
	okMaxDays   = 5
	warnMaxDays = 10
)

// Tier is the report status for one computed delay.
type Tier string

const (
	TierOK    Tier = "ok"
	TierWarn  Tier = "warn"
	TierError Tier = "error"
)

// TierFor maps a delay in days to its report tier.
func TierFor(days int) Tier {
	switch {
	case days <= okMaxDays:
		return TierOK
	case days <= warnMaxDays:
		return TierWarn
	default:
		return TierError
	}
}

// Skip explains why a record's delay could not be computed. Exactly one of
// Field and Err is set: Field names the missing date field, Err holds the
// timestamp parse failure.
type Skip struct {
	Field string
	Err   error
}

// Message renders the warning line for this skip.
func (s *Skip) Message(name string) string {
	if s.Field != "" {
		return fmt.Sprintf("missing field %s in %s", s.Field, name)
	}
	return fmt.Sprintf("invalid date format in %s: %v", name, s.Err)
}

// RecordResult is the per-record outcome of one calculator pass. Skipped
// records carry a non-nil Skip and no meaningful Delay/Tier.
type RecordResult struct {
	Name string
	Kind Kind
	Days int
	Tier Tier
	Skip *Skip
}

// Summary holds the aggregate statistics of one calculator pass.
type Summary struct {
	Total      int // all records, including skipped ones
	Processed  int // records with a computed delay
	Sprints    int
	Hotfixes   int
	TotalDelay int // sum of computed delays, in days
}

// Divisor selects which record count the average delay is computed over.
type Divisor string

const (
	// DivisorAll divides by the total record count, skipped records included.
	// This matches the historical behavior and skews the average whenever
	// records are skipped; it stays the default for output compatibility.
	DivisorAll Divisor = "all"

	// DivisorProcessed divides by the count of records that actually got a
	// delay computed.
	DivisorProcessed Divisor = "processed"
)

// ParseDivisor validates a divisor name from configuration.
func ParseDivisor(s string) (Divisor, error) {
	switch Divisor(s) {
	case DivisorAll, DivisorProcessed, "":
		if s == "" {
			return DivisorAll, nil
		}
		return Divisor(s), nil
	default:
		return "", fmt.Errorf("average divisor %q unknown: want all|processed", s)
	}
}

// AverageDelay returns the mean delay in days over the chosen divisor,
// or 0 when the divisor count is zero.
func (s Summary) AverageDelay(d Divisor) float64 {
	n := s.Total
	if d == DivisorProcessed {
		n = s.Processed
	}
	if n == 0 {
		return 0
	}
	return float64(s.TotalDelay) / float64(n)
}

// Engine derives delays for a collection.
//
// now is injectable so tests control the lastUpdated stamp without sleeping.
type Engine struct {
	now func() time.Time
}

// NewEngine returns a ready-to-use Engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Process computes DelayDays for every processable record in c, refreshes
// c.LastUpdated to the current UTC time, and returns the per-record outcomes
// in input order together with the aggregate summary.
//
// Records missing a date field or carrying an unparsable timestamp are left
// unmodified and reported as skipped; they still count toward Summary.Total
// and are still type-classified.
func (e *Engine) Process(c *Collection) ([]RecordResult, Summary) {
	results := make([]RecordResult, 0, len(c.Deployments))
	var sum Summary
	sum.Total = len(c.Deployments)

	for i := range c.Deployments {
		res := processRecord(&c.Deployments[i])
		switch res.Kind {
		case KindSprint:
			sum.Sprints++
		case KindHotfix:
			sum.Hotfixes++
		}
		if res.Skip == nil {
			sum.Processed++
			sum.TotalDelay += res.Days
		}
		results = append(results, res)
	}

	c.LastUpdated = e.now().UTC().Format(time.RFC3339)
	return results, sum
}

// Summarize computes the aggregate statistics for c without mutating it.
// The data server uses this to report on the live collection.
func Summarize(c *Collection) Summary {
	var sum Summary
	sum.Total = len(c.Deployments)
	for i := range c.Deployments {
		rec := c.Deployments[i] // copy — processRecord writes DelayDays
		res := processRecord(&rec)
		switch res.Kind {
		case KindSprint:
			sum.Sprints++
		case KindHotfix:
			sum.Hotfixes++
		}
		if res.Skip == nil {
			sum.Processed++
			sum.TotalDelay += res.Days
		}
	}
	return sum
}

// processRecord derives the delay for a single record, storing DelayDays on
// success. All failure modes are returned as a Skip value.
func processRecord(r *Record) RecordResult {
	res := RecordResult{
		Name: r.DisplayName(),
		Kind: KindOf(r.Type),
	}

	if r.PlannedDeploymentDate == "" {
		res.Skip = &Skip{Field: "PlannedDeploymentDate"}
		return res
	}
	if r.DeploymentDate == "" {
		res.Skip = &Skip{Field: "DeploymentDate"}
		return res
	}

	planned, err := ParseTimestamp(r.PlannedDeploymentDate)
	if err != nil {
		res.Skip = &Skip{Err: err}
		return res
	}
	actual, err := ParseTimestamp(r.DeploymentDate)
	if err != nil {
		res.Skip = &Skip{Err: err}
		return res
	}

	days := DaysBetween(planned, actual)
	r.DelayDays = &days
	res.Days = days
	res.Tier = TierFor(days)
	return res
}

// DaysBetween returns the whole-day difference actual−planned, fractional
// days floored. For the non-negative delays the data normally carries this is
// plain truncation; early deploys come out negative.
func DaysBetween(planned, actual time.Time) int {
	return int(math.Floor(actual.Sub(planned).Hours() / 24))
}
