package middleware

import (
	"os"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger returns a gin middleware emitting one structured log
// line per request. Separate stream from the app log so request noise
// does not drown reconciliation diagnostics.
func RequestLogger() gin.HandlerFunc {
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return ginlogger.SetLogger(ginlogger.WithLogger(
		func(_ *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return zl
		},
	))
}
