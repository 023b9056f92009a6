package handler

import (
	"net/http"
	"strconv"

	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// respondError writes the mapped error and records it for the error middleware.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := httpdto.ErrorFor(err)
	c.JSON(status, body)
}

func currentCaller(c *gin.Context) (services.Caller, bool) {
	caller, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return services.Caller{}, false
	}
	return caller, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msg, "INVALID_INPUT"))
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}
