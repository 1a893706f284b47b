// Package response renders the API's JSON envelope. Every endpoint answers
// with the same shape: success responses carry data, failures carry an
// errors list.
package response

import "github.com/gin-gonic/gin"

// Success is the envelope for successful responses.
type Success struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Ok         bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
}

// Failure is the envelope for failed responses. Errors is always present,
// even when empty.
type Failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Ok         bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// OK writes a success envelope with the given status, message, and payload.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Success{
		StatusCode: status,
		Message:    message,
		Ok:         true,
		Data:       data,
	})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, message string, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(status, Failure{
		StatusCode: status,
		Message:    message,
		Ok:         false,
		Errors:     errs,
	})
}
