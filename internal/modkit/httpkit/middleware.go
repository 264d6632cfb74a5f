package httpkit

import (
	"net/http"
	"time"

	"csvprep/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout     time.Duration
	CORSOrigins []string
	SlowRequest time.Duration

	// Metrics, when set, observes every request by route pattern
	Metrics *middleware.HTTPMetrics
}

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	// request id and panic recovery wrap everything below
	stack := append(middleware.Defaults(o.Timeout),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
	)
	if o.Metrics != nil {
		stack = append(stack, o.Metrics.Handler)
	}
	return stack
}
