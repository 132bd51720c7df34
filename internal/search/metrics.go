package search

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// upstreamAttempts counts single HTTP attempts against the search API by
// outcome ("ok", "timeout", "error", or the status code).
var upstreamAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "search_upstream_attempts_total",
		Help: "Total number of shopping search API attempts by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(upstreamAttempts)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var se *StatusError
	if errors.As(err, &se) {
		return strconv.Itoa(se.Code)
	}
	if isTimeout(err) {
		return "timeout"
	}
	return "error"
}
