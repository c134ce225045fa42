package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driffle/genie-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps an error onto the HTTP envelope. Internal errors are
// flattened to a generic message; the cause stays in the logs only.
func RespondError(c *gin.Context, err error) {
	e := apierr.From(err)
	msg := e.Error()
	if e.Code == apierr.CodeInternal {
		msg = "internal error"
	}
	c.JSON(e.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    e.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
