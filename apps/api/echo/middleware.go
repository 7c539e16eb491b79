package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const storageModeHeader = "X-Storage-Mode"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shms",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shms",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latencies by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// storageModeMiddleware tells clients which store served the request.
func storageModeMiddleware(mode string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Response().Header().Set(storageModeHeader, mode)
			return next(ctx)
		}
	}
}

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			method := ctx.Request().Method
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			httpRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
			return nil
		}
	}
}
