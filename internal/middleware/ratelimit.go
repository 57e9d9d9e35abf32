package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RefreshThrottle limits how often the manual rate-refresh endpoint may be
// hit: one request per window, shared across callers since a refresh is a
// process-wide operation.
func RefreshThrottle(rate limiter.Rate) gin.HandlerFunc {
	limiterInstance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		lctx, err := limiterInstance.Get(c.Request.Context(), "rates-refresh")
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get throttle context", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during throttle check"})
			return
		}

		if lctx.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Refresh throttled",
				slog.Int64("limit", lctx.Limit),
				slog.Int64("reset", lctx.Reset))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Refresh throttled. Try again later."})
			return
		}

		c.Next()
	}
}
