package api

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/deploytrack/deploytrack/internal/delay"
)

// metrics returns GET /metrics — collection statistics in Prometheus text
// exposition format, so the same numbers the summary reports can be scraped.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	c, err := h.store.Get()
	if err != nil {
		code, msg := storeErrStatus(err)
		jsonErr(w, code, msg)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range metricFamilies(c, h.divisor) {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// metricFamilies builds the exposition families for one collection.
func metricFamilies(c *delay.Collection, divisor delay.Divisor) []*dto.MetricFamily {
	sum := delay.Summarize(c)

	var lastUpdated float64
	if t, err := delay.ParseTimestamp(c.LastUpdated); err == nil {
		lastUpdated = float64(t.Unix())
	}

	return []*dto.MetricFamily{
		gaugeFamily("deploytrack_deployments_total",
			"Total number of deployment records, skipped ones included.",
			gauge(float64(sum.Total))),
		gaugeFamily("deploytrack_deployments",
			"Number of deployment records by type.",
			gaugeLabeled(float64(sum.Sprints), "type", "sprint"),
			gaugeLabeled(float64(sum.Hotfixes), "type", "hotfix")),
		gaugeFamily("deploytrack_records_skipped",
			"Records without a computable delay (missing or invalid dates).",
			gauge(float64(sum.Total-sum.Processed))),
		gaugeFamily("deploytrack_delay_days_total",
			"Sum of computed deployment delays in days.",
			gauge(float64(sum.TotalDelay))),
		gaugeFamily("deploytrack_delay_days_avg",
			"Average deployment delay in days over the configured divisor.",
			gauge(sum.AverageDelay(divisor))),
		gaugeFamily("deploytrack_last_updated_timestamp_seconds",
			"Unix time of the last successful calculator run, 0 if unknown.",
			gauge(lastUpdated)),
	}
}

func gaugeFamily(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   strPtr(name),
		Help:   strPtr(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func gauge(value float64) *dto.Metric {
	return &dto.Metric{Gauge: &dto.Gauge{Value: floatPtr(value)}}
}

func gaugeLabeled(value float64, label, labelValue string) *dto.Metric {
	m := gauge(value)
	m.Label = []*dto.LabelPair{{Name: strPtr(label), Value: strPtr(labelValue)}}
	return m
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
