package responses

import "github.com/gin-gonic/gin"

// Error writes the shared envelope with the error slot filled. The message is
// what the caller acted on; the underlying error rides along for debugging.
func Error(c *gin.Context, status int, err error, message string) {
	c.JSON(status, Response{
		Error: message,
		Data:  gin.H{"detail": err.Error()},
	})
}
