package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/mesasync/pkg/ctxmeta"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderCallSession = "X-Call-Session-ID" // id звонка голосового агента

	maxRequestIDLen = 128
)

// RequestIDMiddleware — request_id берётся из X-Request-ID, затем из X-Call-Session-ID;
// пустой, слишком длинный или с непечатаемыми символами заменяется на UUID.
// Итоговый id кладётся в контекст и возвращается в X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = c.GetHeader(HeaderCallSession)
		}
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
