package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"briefsky.app/internal/adapters/infrastructure"
	"briefsky.app/internal/core/briefing"
	"briefsky.app/internal/core/settings"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// SaveSettingsRequest is the validated part of a settings submission.
// All other submitted keys form the parameter bag.
type SaveSettingsRequest struct {
	Storage string `json:"storage" form:"storage" binding:"omitempty,oneof=local query"`
}

// SaveSettingsResponse carries the query the client should reload with
type SaveSettingsResponse struct {
	Query string `json:"query"`
}

// getForecast handles GET /api/forecast requests
func (s *HTTPServerAdapter) getForecast(c *gin.Context) {
	result, err := s.briefingUseCase.GetForecast(c.Request.Context(), s.forecastRequest(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSettings handles GET /api/settings requests
func (s *HTTPServerAdapter) getSettings(c *gin.Context) {
	view, err := s.briefingUseCase.GetSettings(c.Request.Context(), s.forecastRequest(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// saveSettings handles POST /api/settings requests
func (s *HTTPServerAdapter) saveSettings(c *gin.Context) {
	params, err := submittedParams(c)
	if err != nil {
		s.handleError(c, errors.NewValidationError("Invalid request format"))
		return
	}

	request := SaveSettingsRequest{Storage: params[settings.KeyStorage]}
	if err := binding.Validator.ValidateStruct(&request); err != nil {
		s.handleError(c, errors.NewValidationError("storage must be one of: local, query"))
		return
	}
	delete(params, settings.KeyStorage)

	query, err := s.briefingUseCase.SaveSettings(c.Request.Context(), briefing.SaveRequest{
		SessionID: s.sessionID(c),
		Storage:   settings.ParseMode(request.Storage),
		Region:    s.region(c),
		Params:    params,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SaveSettingsResponse{Query: query.Encode()})
}

// submittedParams reads the bag from a JSON object or a form body
func submittedParams(c *gin.Context) (settings.Params, error) {
	if c.ContentType() == binding.MIMEJSON {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		params := make(settings.Params, len(body))
		for key, value := range body {
			switch v := value.(type) {
			case nil:
			case string:
				params[key] = v
			default:
				params[key] = fmt.Sprint(v)
			}
		}
		return params, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return settings.ParamsFromValues(c.Request.PostForm), nil
}

// getProviders handles GET /api/providers requests
func (s *HTTPServerAdapter) getProviders(c *gin.Context) {
	c.JSON(http.StatusOK, s.briefingUseCase.Providers())
}

// getKiosk handles GET /api/kiosk requests
func (s *HTTPServerAdapter) getKiosk(c *gin.Context) {
	if s.kiosk == nil {
		s.handleError(c, errors.NewNotFoundError("kiosk mode is not enabled"))
		return
	}

	snapshot, err := s.kiosk.Latest(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, binding.MIMEJSON, snapshot)
}

// HealthResponse aggregates component health
type HealthResponse struct {
	Status     string                        `json:"status"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// getHealth handles GET /health requests
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	components := s.healthChecker.CheckAll(c.Request.Context())

	response := HealthResponse{Status: infrastructure.StatusHealthy, Components: components}
	statusCode := http.StatusOK
	if !infrastructure.Healthy(components) {
		response.Status = infrastructure.StatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
