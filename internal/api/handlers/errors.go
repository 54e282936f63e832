package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/registrar"
)

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "Invalid request",
		Message: message,
		Code:    models.CodeInvalidRequest,
	})
}

// respondError maps a service error onto the response envelope. "Name
// taken" and "unavailable" get distinct codes because only the former is
// something the user can fix.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		invalid   *directory.InvalidNameError
		taken     *directory.NameTakenError
		notFound  *directory.NotFoundError
		notOwner  *directory.NotOwnerError
		configErr *registrar.ConfigurationError
		upstream  *registrar.RegistrarError
		status    int
		resp      models.ErrorResponse
	)

	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		resp = models.ErrorResponse{Error: "Invalid subdomain", Message: invalid.Error(), Code: models.CodeInvalidRequest}
	case errors.Is(err, registrar.ErrInvalidIP):
		status = http.StatusBadRequest
		resp = models.ErrorResponse{Error: "Invalid IP address", Message: err.Error(), Code: models.CodeInvalidRequest}
	case errors.Is(err, directory.ErrOwnerRequired):
		status = http.StatusUnauthorized
		resp = models.ErrorResponse{Error: "Unauthorized", Message: err.Error(), Code: models.CodeUnauthorized}
	case errors.As(err, &taken):
		status = http.StatusConflict
		resp = models.ErrorResponse{
			Error:   "Subdomain is already taken",
			Message: "choose another subdomain",
			Code:    models.CodeNameTaken,
		}
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		resp = models.ErrorResponse{Error: "Subdomain not found", Message: notFound.Error(), Code: models.CodeNotFound}
	case errors.As(err, &notOwner):
		status = http.StatusForbidden
		resp = models.ErrorResponse{Error: "Forbidden", Message: "subdomain belongs to another user", Code: models.CodeNotOwner}
	case errors.As(err, &configErr):
		status = http.StatusInternalServerError
		resp = models.ErrorResponse{
			Error:   "Publishing service unavailable",
			Message: configErr.Error(),
			Code:    models.CodeRegistrarUnconfigured,
		}
	case errors.As(err, &upstream):
		status = http.StatusInternalServerError
		resp = models.ErrorResponse{
			Error:   "Publishing service unavailable",
			Message: upstream.Error(),
			Code:    models.CodeRegistrarUnavailable,
		}
	default:
		status = http.StatusInternalServerError
		resp = models.ErrorResponse{
			Error:   "Publishing service unavailable",
			Message: err.Error(),
			Code:    models.CodeRegistrarUnavailable,
		}
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, resp)
}
