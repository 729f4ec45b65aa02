package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/pkg/ctxmeta"
)

// RequestLogger — журнал HTTP-запросов. request_id, restaurant_id и trace_id
// логгер берёт из контекста; 5xx пишутся как Errorf, 4xx как Warnf.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if id := c.Param("id"); id != "" {
			c.Request = c.Request.WithContext(ctxmeta.WithRestaurantID(c.Request.Context(), id))
		}
		c.Next()

		// не логируем /metrics, /ping
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		logf := log.Infof
		switch {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}
		logf(
			c.Request.Context(),
			"request method=%s path=%s query=%q status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Request.URL.RawQuery,
			status,
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
