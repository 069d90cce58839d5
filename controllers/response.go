package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"therapyhub-menus/services"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       any       `json:"data"`
	Errors     []string  `json:"errors"`
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode"`
}

func writeSuccess(response *restful.Response, statusCode int, message string, data any) {
	_ = response.WriteHeaderAndJson(statusCode, APIResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Errors:     []string{},
		Timestamp:  time.Now().UTC(),
		StatusCode: statusCode,
	}, restful.MIME_JSON)
}

// WriteError writes a failure envelope. errs defaults to the message itself.
func WriteError(response *restful.Response, statusCode int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = []string{message}
	}
	_ = response.WriteHeaderAndJson(statusCode, APIResponse{
		Success:    false,
		Message:    message,
		Errors:     errs,
		Timestamp:  time.Now().UTC(),
		StatusCode: statusCode,
	}, restful.MIME_JSON)
}

// handleServiceError translates service errors to HTTP responses. Only typed errors reach the
// caller verbatim; everything else is logged and reported generically.
func handleServiceError(logger *zap.Logger, request *restful.Request, response *restful.Response, op string, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		WriteError(response, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		WriteError(response, http.StatusNotFound, notFoundErr.Error())
	default:
		logger.Error("Request failed",
			zap.String("op", op),
			zap.String("method", request.Request.Method),
			zap.String("path", request.Request.URL.Path),
			zap.Error(err))
		WriteError(response, http.StatusInternalServerError, "Internal server error", "An error occurred while processing the request")
	}
}

// pathID parses a positive integer path parameter.
func pathID(request *restful.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(request.PathParameter(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
