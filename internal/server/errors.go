package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promolabs/promosync/internal/cosmos"
	productdomain "github.com/promolabs/promosync/internal/product/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, productdomain.ErrInvalidBarcode), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, productdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, cosmos.ErrUpstreamUnreachable):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_unreachable",
			Message: "catalog upstream unreachable",
		}
	}

	var statusErr *cosmos.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, errorPayload{
				Type:    "not_found",
				Message: "not found upstream",
			}
		}
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "catalog upstream error",
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}
