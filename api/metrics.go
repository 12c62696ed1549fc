package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leave",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leave",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leave",
			Name:      "requests_total",
			Help:      "Leave requests persisted, by type",
		},
		[]string{"type"},
	)
	compDaysUsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "comp_days_used_total",
		Help:      "Comp days drawn by leave requests",
	})
	annualDaysUsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "annual_days_used_total",
		Help:      "Annual leave days drawn by leave requests",
	})
	compDaysGranted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "comp_days_granted_total",
		Help:      "Comp days granted for worked holidays",
	})
)

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := strconv.Itoa(ww.Status())
		httpRequestsTotal.WithLabelValues(r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
	})
}

func observeRequest(req leave.LeaveRequest) {
	requestsTotal.WithLabelValues(string(req.Type)).Inc()
	compDaysUsed.Add(req.UsedComp.InexactFloat64())
	annualDaysUsed.Add(req.UsedAnnual.InexactFloat64())
}

func observeGrants(grants []leave.CompGrant) {
	total := decimal.Zero
	for _, g := range grants {
		total = total.Add(g.Amount)
	}
	compDaysGranted.Add(total.InexactFloat64())
}
