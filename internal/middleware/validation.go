package middleware

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body, writing a 400 response on
// failure. Handlers return when it reports false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters the same way.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}
