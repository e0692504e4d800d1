package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/library"
	"github.com/mrlokans/tabby/internal/metadata"
	"github.com/mrlokans/tabby/internal/recommendations"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// classifyError maps errors returned by the stores, the category views and
// the recommendations service to a status code and client message. Anything
// unknown is an internal error.
func classifyError(err error, resource string) (int, ErrorResponse) {
	switch {
	case errors.Is(err, database.ErrNotFound),
		errors.Is(err, library.ErrUnknownBook),
		errors.Is(err, metadata.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: resource + " not found"}
	case errors.Is(err, database.ErrAlreadyExists):
		return http.StatusConflict, ErrorResponse{Error: resource + " already exists", Code: "already_exists"}
	case errors.Is(err, library.ErrNotLoaded):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "not_loaded"}
	case errors.Is(err, library.ErrNoOtherCategories):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "no_other_categories"}
	case errors.Is(err, library.ErrNoSelection),
		errors.Is(err, library.ErrNoTargetCategories),
		errors.Is(err, library.ErrInvalidTarget),
		errors.Is(err, library.ErrUnknownModal),
		errors.Is(err, library.ErrInvalidCustomBook),
		errors.Is(err, recommendations.ErrNoCategory),
		errors.Is(err, recommendations.ErrNothingToDo):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, recommendations.ErrCatalogFailure):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "catalog_unavailable"}
	case database.IsPartial(err):
		return http.StatusInternalServerError, ErrorResponse{Error: "operation only partially completed", Code: "partial"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

// respondDomainError sends the classified error. Server-side failures are
// logged.
func respondDomainError(c *gin.Context, err error, resource string) {
	status, response := classifyError(err, resource)
	if status >= http.StatusInternalServerError {
		log.Printf("Internal error (%s): %v", resource, err)
	}
	c.JSON(status, response)
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseStringParam extracts a non-blank URL parameter.
// Returns the trimmed value or responds with a 400 error and returns "", false.
func parseStringParam(c *gin.Context, paramName string) (string, bool) {
	value := strings.TrimSpace(c.Param(paramName))
	if value == "" {
		respondBadRequest(c, paramName+" is required")
		return "", false
	}
	return value, true
}

// parseOptionalBool reads a true/false query parameter. An absent parameter
// yields nil; anything else than true or false responds with a 400 error.
func parseOptionalBool(c *gin.Context, paramName string) (*bool, bool) {
	switch strings.ToLower(c.Query(paramName)) {
	case "":
		return nil, true
	case "true", "1":
		v := true
		return &v, true
	case "false", "0":
		v := false
		return &v, true
	}
	respondBadRequest(c, "invalid "+paramName)
	return nil, false
}
