package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handlerFn gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", handlerFn)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.Success(c, gin.H{"name": "Ada"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_HandleError_NotFound(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, shared.ErrNotFound)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestBaseHandler_HandleError_Conflict(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, shared.NewDomainError("CONFLICT", "Property already has a live tenancy"))
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestBaseHandler_HandleError_ConcurrencyConflict(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, shared.ErrConcurrencyConflict)
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBaseHandler_HandleError_InvalidState(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, shared.NewDomainError("INVALID_STATE", "Cannot end a terminated tenancy"))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBaseHandler_HandleError_DomainValidation(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, shared.NewDomainError("INVALID_DUE_DAY", "Rent due day must be between 1 and 28"))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBaseHandler_HandleError_UnknownErrorIsInternal(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(func(c *gin.Context) {
		h.HandleError(c, assert.AnError)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
}

func TestBaseHandler_ErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Set("request_id", "req-42")
		h.NotFound(c, "Landlord not found")
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}
