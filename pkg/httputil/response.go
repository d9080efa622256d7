package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

// RespondWithCreated sends a success response for a created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

// RespondWithError sends an error response, mapping AppError codes to HTTP
// statuses and hiding internal detail for everything else.
func RespondWithError(c *gin.Context, err error) {
	var statusCode int
	var message string

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		statusCode = int(appErr.Code)
		message = appErr.Message
	} else {
		statusCode = http.StatusInternalServerError
		message = "internal server error"
	}

	c.JSON(statusCode, NewErrorResponse(message))
}
