package links

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_clicks_recorded_total",
		Help: "Clicks accepted by the click recorder",
	})

	clickRecordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_click_record_failures_total",
		Help: "Clicks dropped because the click recorder returned an error",
	})
)
