package server

import (
	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"go.uber.org/zap"
)

// successCode is the envelope code carried by every success body,
// independent of the HTTP status (creates respond 201 with body code 200).
const successCode = 200

const tokenSuggestion = "generate a stable identifier on first launch and send it as X-User-Token"

// writeError translates a taxonomy error into the structured error body:
// a numeric code mirroring the HTTP status plus a message. Internal
// causes are logged, never surfaced.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := kind.HTTPStatus()
	if kind == apperrors.KindInternal {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	body := gin.H{"code": status, "error": apperrors.MessageOf(err)}
	if kind == apperrors.KindAuthentication {
		body["suggestion"] = tokenSuggestion
	}
	c.AbortWithStatusJSON(status, body)
}
