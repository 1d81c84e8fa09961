package api

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// IndexResponse is the payload for GET /.
type IndexResponse struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

// SummaryResponse is the payload for GET /api/summary.
type SummaryResponse struct {
	TotalDeployments int     `json:"total_deployments"`
	Processed        int     `json:"processed"`
	Skipped          int     `json:"skipped"`
	Sprints          int     `json:"sprints"`
	Hotfixes         int     `json:"hotfixes"`
	TotalDelayDays   int     `json:"total_delay_days"`
	AverageDelayDays float64 `json:"average_delay_days"`
	LastUpdated      string  `json:"last_updated,omitempty"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
