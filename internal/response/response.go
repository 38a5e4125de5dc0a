package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the standardized API response body. Errors travel in-band:
// failures still answer HTTP 200 with success=false so offline clients only
// have to branch on one flag. Transport-level failures (auth, rate limit)
// are the exception and keep their conventional status codes.
type Envelope struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message,omitempty"`
	Code          ErrCode           `json:"code,omitempty"`
	Data          interface{}       `json:"data,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	AlreadySynced bool              `json:"already_synced,omitempty"`
}

// OK sends a successful response with the given data payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
	})
}

// OKMessage sends a successful response with a message and optional data.
func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 response for newly created resources.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Data:    data,
	})
}

// Fail sends an in-band error response (HTTP 200, success=false).
func Fail(c *gin.Context, code ErrCode) {
	c.JSON(http.StatusOK, Envelope{
		Success: false,
		Code:    code,
		Message: GetMessage(code),
	})
}

// FailMessage sends an in-band error with a specific message, used where the
// underlying driver message is surfaced to the caller.
func FailMessage(c *gin.Context, code ErrCode, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// FailWithFields sends an in-band validation error with field-level details.
func FailWithFields(c *gin.Context, code ErrCode, fields map[string]string) {
	c.JSON(http.StatusOK, Envelope{
		Success: false,
		Code:    code,
		Message: GetMessage(code),
		Fields:  fields,
	})
}

// Duplicate sends the idempotent-rejection response for an already graded
// attempt token. Callers should treat it as success.
func Duplicate(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{
		Success:       false,
		Code:          ErrDuplicate,
		Message:       GetMessage(ErrDuplicate),
		AlreadySynced: true,
	})
}

// AbortFail aborts the middleware chain with a real HTTP status code.
// Reserved for transport-level failures (auth, rate limiting).
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Success: false,
		Code:    code,
		Message: GetMessage(code),
	})
}
