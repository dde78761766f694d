package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "caserun"

	resultPass = "pass"
	resultFail = "fail"
)

var (
	casesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "cases_total",
		Help:      "Number of performed test cases",
	}, []string{
		"entry",
		"result",
	})

	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "failures_total",
		Help:      "Number of recorded test case failures",
	}, []string{
		"entry",
		"expected",
	})

	caseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "case_duration_seconds",
		Help:      "Duration of performed test cases",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{
		"entry",
	})
)

// RecordCase records the outcome of one performed test case of the given
// entry.
func RecordCase(entry string, passed bool, duration time.Duration, expectedFailures int, unexpectedFailures int) {
	result := resultFail
	if passed {
		result = resultPass
	}

	casesTotal.WithLabelValues(entry, result).Inc()
	caseDuration.WithLabelValues(entry).Observe(duration.Seconds())

	if expectedFailures > 0 {
		failuresTotal.WithLabelValues(entry, strconv.FormatBool(true)).Add(float64(expectedFailures))
	}
	if unexpectedFailures > 0 {
		failuresTotal.WithLabelValues(entry, strconv.FormatBool(false)).Add(float64(unexpectedFailures))
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// exposition format, for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
