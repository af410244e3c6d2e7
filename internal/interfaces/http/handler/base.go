package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response wrapping data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Created sends a 201 response wrapping data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.errorResponse(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, message)
}

// NotFound sends a 404 error response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.errorResponse(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.errorResponse(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps an error to the envelope. Domain errors keep their code
// and map to a status via dto.GetHTTPStatus; binding validation errors become
// 400; everything else is a 500 with the message withheld from the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.errorResponse(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.errorResponse(c, http.StatusBadRequest, dto.ErrCodeValidationFailed, validationErrs.Error())
		return
	}

	h.errorResponse(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// HandleBindingError maps a request binding failure to a 400 response
func (h *BaseHandler) HandleBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.errorResponse(c, http.StatusBadRequest, dto.ErrCodeValidationFailed, validationErrs.Error())
		return
	}
	h.errorResponse(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
}

func (h *BaseHandler) errorResponse(c *gin.Context, status int, code, message string) {
	requestID := c.GetString("request_id")
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
