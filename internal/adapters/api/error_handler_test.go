package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/mocks"
	"briefsky.app/pkg/errors"
)

func TestHTTPServerAdapter_HandleError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"Validation", errors.NewValidationError("validation failed"), http.StatusBadRequest, "validation failed"},
		{"NotFound", errors.NewNotFoundError("resource not found"), http.StatusNotFound, "resource not found"},
		{"Network", errors.NewNetworkError("fetching from Open-Meteo: connection refused", nil), http.StatusBadGateway, "fetching from Open-Meteo: connection refused"},
		{"Upstream", errors.NewUpstreamError("fetching from WeatherFlow for station 1: UNAUTHORIZED", nil), http.StatusBadGateway, "fetching from WeatherFlow for station 1: UNAUTHORIZED"},
		{"Decode", errors.NewDecodeError("fetching from Tomorrow.io: missing timeline", nil), http.StatusBadGateway, "fetching from Tomorrow.io: missing timeline"},
		{"ExternalAPI", errors.NewExternalAPIError("geocoder down", nil), http.StatusServiceUnavailable, "External service unavailable"},
		{"Database", errors.NewDatabaseError("database connection failed", nil), http.StatusInternalServerError, "Internal server error"},
		{"Configuration", errors.NewConfigurationError("configuration error", nil), http.StatusInternalServerError, "Internal server error"},
		{"Unknown", errors.New(errors.ErrorTypeUnknown, "generic error"), http.StatusInternalServerError, "Internal server error"},
		{"Plain", stderrors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			server := &HTTPServerAdapter{logger: mocks.NewLogger(t).Quiet()}

			router := gin.New()
			router.GET("/test", func(c *gin.Context) {
				server.handleError(c, tt.err)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedMessage, response.Error)
		})
	}
}

func TestHTTPServerAdapter_HandleError_WrappedAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := &HTTPServerAdapter{}

	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		err := errors.NewUpstreamError("fetching from Pirate Weather: returned status 429", nil)
		server.handleError(c, fmt.Errorf("load settings: %w", err))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
