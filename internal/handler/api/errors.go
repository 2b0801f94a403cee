package api

import (
	"errors"
	"net/http"

	"fio-market/internal/handler/httperr"
	"fio-market/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

// abortWithUsecaseError maps the usecase error taxonomy onto HTTP statuses.
// Client errors carry their own message; internal failures never leak detail.
func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error())
	case errors.Is(err, shared.ErrBadRequest):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, err.Error())
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

func abortMissingIdentity(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
	c.Abort()
}
