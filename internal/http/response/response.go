package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the flat error envelope every endpoint returns on failure.
type ErrorBody struct {
	Error string `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondError(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(status, ErrorBody{Error: msg})
}
