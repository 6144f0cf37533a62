package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON envelope of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newErrorResponse(statusCode int, message, requestID string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:      http.StatusText(statusCode),
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}
}

// RespondWithJSON sends payload with the given status
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondWithError sends the error envelope. message is shown to clients as is.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, newErrorResponse(statusCode, message, ""))
}

// ErrorHandlingMiddleware turns a panic in a handler into a 500 envelope
// carrying the request ID, and logs the panic value.
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				requestID := requestIDFrom(r)
				logger.Error("Handler panicked",
					zap.Any("panic", recovered),
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				RespondWithJSON(w, http.StatusInternalServerError,
					newErrorResponse(http.StatusInternalServerError, "internal server error", requestID))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
