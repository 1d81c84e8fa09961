// Package delay implements the deployment delay calculator: the record and
// collection model for data/deployments.json, per-record delay derivation,
// and the aggregate summary statistics.
//
// Record-level problems (a missing date field, an unparsable timestamp) are
// reported as RecordResult values and never abort a run; only file-level
// load/save failures are surfaced as errors by the callers in internal/store.
package delay
