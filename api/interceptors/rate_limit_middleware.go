package interceptors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	apiutil "github.com/antivoicemail/go-antivoicemail-server/api/util"
	"github.com/antivoicemail/go-antivoicemail-server/global"
)

const (
	LimitRequestsPerSecond = 5
)

func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip, ipErr := apiutil.GetIPFromContext(c)
		if ipErr != nil {
			// ignore for now
		}
		if ip == nil {
			unkn := "unknown"
			ip = &unkn
		}
		// webhooks carry the caller number, which makes a better bucket key
		// than browser headers would
		from := c.PostForm("From")
		userAgent := c.GetHeader("User-Agent")
		all := fmt.Sprintf("%s%s%s", *ip, from, userAgent)

		hash := xxhash.Sum64String(all)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		result, err := global.RateLimiter.Allow(ctx, strconv.FormatUint(hash, 10), redis_rate.PerSecond(LimitRequestsPerSecond))
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, errors.New("failed to perform rate limit check"))
			return
		}
		if result.Allowed <= 0 {
			c.AbortWithError(http.StatusTooManyRequests, errors.New("too many requests"))
			return
		}

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit.Rate))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Writer.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(result.ResetAfter.Milliseconds())))
		c.Next()
	}
}
