package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/IgorGrieder/short-links/internal/constants"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CorrelationIDHeader = "X-Correlation-Id"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error" example:"Link not found"`
}

// GetCorrelationID extracts the correlation ID from the request header
// If not present, generates a new UUID v4
func GetCorrelationID(r *http.Request) string {
	correlationID := r.Header.Get(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	return correlationID
}

// WriteAPIError writes {"error": message} with the status of apiErr and
// returns the correlation id it used.
func WriteAPIError(w http.ResponseWriter, r *http.Request, apiErr constants.APIError) string {
	correlationID := GetCorrelationID(r)

	w.Header().Set(CorrelationIDHeader, correlationID)
	writeJSON(w, apiErr.Status, ErrorResponse{Error: apiErr.Message})

	logger.Debug("api error",
		zap.String("code", apiErr.Code),
		zap.Int("status", apiErr.Status),
		zap.String("path", r.URL.Path),
		zap.String("correlation_id", correlationID),
	)
	return correlationID
}

// WriteAPISuccess writes data as the raw body with the status of apiSuccess.
func WriteAPISuccess(w http.ResponseWriter, r *http.Request, apiSuccess constants.APISuccess, data any) {
	correlationID := GetCorrelationID(r)

	w.Header().Set(CorrelationIDHeader, correlationID)
	writeJSON(w, apiSuccess.Status, data)

	logger.Debug("api success",
		zap.String("code", apiSuccess.Code),
		zap.Int("status", apiSuccess.Status),
		zap.String("path", r.URL.Path),
		zap.String("correlation_id", correlationID),
	)
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode json response", zap.Error(err))
	}
}
