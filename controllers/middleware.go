package controllers

import (
	"fmt"
	"net/http"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(logger *zap.Logger) restful.FilterFunction {
	logger = logger.Named("http")
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		requestID := req.HeaderParameter(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		resp.AddHeader(RequestIDHeader, requestID)

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("request_id", requestID),
			zap.String("client_ip", req.Request.RemoteAddr),
			zap.String("method", req.Request.Method),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
			zap.String("path", req.Request.URL.Path),
		)
	}
}

// RecoverHandler logs a panic and answers with the generic 500 envelope.
func RecoverHandler(logger *zap.Logger) func(any, http.ResponseWriter) {
	logger = logger.Named("recover")
	return func(panicReason any, w http.ResponseWriter) {
		logger.Error("Recovered from panic", zap.String("reason", fmt.Sprint(panicReason)), zap.Stack("stack"))
		WriteError(restful.NewResponse(w), http.StatusInternalServerError,
			"Internal server error", "An error occurred while processing the request")
	}
}
