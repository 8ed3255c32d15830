package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError defines standard error response
// Example: { "error": { "code": "internal_error", "message": "classifier failed" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.AbortWithStatusJSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func ServiceUnavailable(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusServiceUnavailable, "service_unavailable", msg)
}

func GatewayTimeout(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusGatewayTimeout, "timeout", msg)
}

// Detail sends the {"detail": msg} shape used for routing errors.
func Detail(ctx *gin.Context, status int, msg string) {
	ctx.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func NotFound(ctx *gin.Context) {
	Detail(ctx, http.StatusNotFound, "Not Found")
}

func MethodNotAllowed(ctx *gin.Context) {
	Detail(ctx, http.StatusMethodNotAllowed, "Method Not Allowed")
}
