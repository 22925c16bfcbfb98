package server

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/medsum/errors"
)

// RespondWithError writes {"error": message} with the status carried by
// err. Unknown errors become the generic transport failure.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.Classify(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
