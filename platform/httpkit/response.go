// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"sales_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for every successful response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data"`
}

// FailureResponse is the envelope for every failed response.
type FailureResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

const genericFailureMessage = "request failed"

// OK sends a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// OKList sends a 200 success envelope carrying the item count.
func OKList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Count: &count, Data: data})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

// Error sends a failure envelope with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, FailureResponse{Success: false, Message: message, Details: details})
}

// HandleError maps domain errors to failure envelopes.
// Typed *apperr.Error values determine the status; anything else becomes a
// 400 with a generic message so driver errors never leak to callers.
// Returns true if an error was handled.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		message := domainErr.Message
		if domainErr.Kind == apperr.KindInternal {
			message = genericFailureMessage
		}
		_ = c.Error(err)
		c.JSON(domainErr.HTTPStatus(), FailureResponse{
			Success: false,
			Message: message,
			Details: domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, FailureResponse{Success: false, Message: genericFailureMessage})
	return true
}

func abortFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, FailureResponse{Success: false, Message: message})
}
