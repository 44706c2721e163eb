package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/api/metrics"
	"github.com/campuspress/newsroom/internal/pkg/ratelimit"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

type tooManyRequestsResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	ResetAt int64  `json:"resetAt"`
}

// RateLimit applies limiter to the route under prefix, keyed by client
// address. Rejections get a 429 with retry guidance. If the counter store
// fails the request is let through and the failure logged.
func RateLimit(limiter *ratelimit.Limiter, prefix string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			client := ratelimit.ClientIdentifier(req)

			res, err := limiter.Check(req.Context(), prefix, client)
			if err != nil {
				metrics.RateLimitChecksTotal.WithLabelValues(prefix, "error").Inc()
				log.Error().Err(err).Str("prefix", prefix).Str("client", client).Msg("rate limit store failed, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.UnixMilli(), 10))

			if res.Success {
				metrics.RateLimitChecksTotal.WithLabelValues(prefix, "allowed").Inc()
				return next(c)
			}

			metrics.RateLimitChecksTotal.WithLabelValues(prefix, "rejected").Inc()
			retryAfter := res.RetryAfter(limiter.Now())
			h.Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			log.Warn().Str("prefix", prefix).Str("client", client).Time("reset_at", res.ResetAt).Msg("rate limit exceeded")

			return c.JSON(http.StatusTooManyRequests, tooManyRequestsResponse{
				Error:   "Too many requests",
				Message: ratelimit.TooManyRequestsMessage(req.Header.Get("Accept-Language"), retryAfter),
				ResetAt: res.ResetAt.UnixMilli(),
			})
		}
	}
}
