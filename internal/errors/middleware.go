package errors

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware converts errors attached to the gin context into JSON
// responses with the status code of their error type. Handlers call
// c.Error(err) and return; this is the single place responses for
// failures are written.
func Middleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		structured := AsEngineError(c.Errors.Last().Err)

		switch structured.Type {
		case TypeStore:
			log.Error("store failure",
				zap.String("path", c.FullPath()),
				zap.Error(structured),
			)
		case TypeConflict:
			log.Warn("write conflict surfaced",
				zap.String("path", c.FullPath()),
				zap.Error(structured),
			)
		}

		c.JSON(structured.HTTPStatus(), structured.ToResponse())
		c.Abort()
	}
}
