package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body shape shared by every API endpoint.
// Status is "success" for 2xx, "fail" for 4xx and "error" for 5xx.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"` // development mode only
}

func statusWord(code int) string {
	switch {
	case code < 400:
		return "success"
	case code < 500:
		return "fail"
	default:
		return "error"
	}
}

// Success writes a 2xx envelope with data.
func Success(c *gin.Context, code int, data any) {
	if code == 0 {
		code = http.StatusOK
	}
	c.JSON(code, Envelope{Status: statusWord(code), Data: data})
}

// List writes a 200 envelope with data plus a results count.
func List(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Results: &count, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data any) {
	Success(c, http.StatusCreated, data)
}

// NoContent writes a 204 with an empty body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail writes a 4xx/5xx envelope with a message and optional details.
func Fail(c *gin.Context, code int, message string, details any) {
	c.JSON(code, Envelope{Status: statusWord(code), Message: message, Details: details})
}
