package handler

import (
	"context"
	"errors"
	"net/http"

	"levelup/repository"
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps engine errors onto the local API. The user has already
// been notified by the engine; the body repeats the message for the caller.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *usecase.ValidationError
	var rerr *repository.RemoteError

	switch {
	case errors.As(err, &verr):
		utils.BadRequest(c, verr.Message)
	case errors.Is(err, usecase.ErrNotAuthenticated):
		utils.Unauthorized(c, "Not authenticated")
	case errors.Is(err, usecase.ErrStaleSession):
		c.JSON(http.StatusConflict, &utils.Response{
			Status: http.StatusConflict,
			Error:  "Session changed while the request was in flight",
		})
	case errors.As(err, &rerr) && rerr.Status == http.StatusUnauthorized:
		utils.Unauthorized(c, usecase.UserMessage(err, fallback))
	case errors.As(err, &rerr), errors.Is(err, context.DeadlineExceeded):
		utils.BadGateway(c, usecase.UserMessage(err, fallback))
	default:
		utils.BadGateway(c, fallback)
	}
}
