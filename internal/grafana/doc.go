// Package grafana implements the dashboard publisher: it loads a dashboard
// definition, substitutes the data-URL placeholder, and POSTs the document to
// the Grafana dashboard API with bearer authentication.
//
// Outcomes are classified two ways: HTTP status errors (ErrAuth,
// ErrPermission, ErrEndpointNotFound, ErrUnexpectedStatus) and transport
// failures (ClassifyFailure: TLS vs connection vs timeout), so the CLI can
// print a tailored diagnostic for each. One request, no retries.
package grafana
