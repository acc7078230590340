package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"briefsky.app/internal/core/forecast"
	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// GeocodeRequest represents a place name search
type GeocodeRequest struct {
	Query string `form:"q" binding:"required,min=2"`
}

// ReverseGeocodeRequest represents a coordinate lookup
type ReverseGeocodeRequest struct {
	Location string `form:"location" binding:"required,latlon"`
}

// GeocodeResponse lists forward geocoding matches with their source
type GeocodeResponse struct {
	Source      string                    `json:"source"`
	Attribution string                    `json:"attribution,omitempty"`
	Results     []ports.LocationCandidate `json:"results"`
}

// ReverseGeocodeResponse names a coordinate pair
type ReverseGeocodeResponse struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Attribution string `json:"attribution,omitempty"`
}

// RegisterValidators installs the custom binding validators on gin's engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.NewConfigurationError("unexpected binding validator engine", nil)
	}
	return v.RegisterValidation("latlon", validateLatLon)
}

// validateLatLon accepts "lat,lon" with both coordinates in range
func validateLatLon(fl validator.FieldLevel) bool {
	location := forecast.ParseLocation(fl.Field().String())
	if !location.Valid() {
		return false
	}

	latitude, err := strconv.ParseFloat(location.Latitude, 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return false
	}
	longitude, err := strconv.ParseFloat(location.Longitude, 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return false
	}
	return true
}

// forwardGeocode handles GET /api/geocode requests
func (s *HTTPServerAdapter) forwardGeocode(c *gin.Context) {
	var request GeocodeRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		s.handleError(c, errors.NewValidationError("q must be at least 2 characters"))
		return
	}

	results, err := s.geocoder.ForwardGeocode(c.Request.Context(), request.Query)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if results == nil {
		results = []ports.LocationCandidate{}
	}

	c.JSON(http.StatusOK, GeocodeResponse{
		Source:      s.geocoder.Description(),
		Attribution: s.geocoder.Attribution(),
		Results:     results,
	})
}

// reverseGeocode handles GET /api/geocode/reverse requests
func (s *HTTPServerAdapter) reverseGeocode(c *gin.Context) {
	var request ReverseGeocodeRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		s.handleError(c, errors.NewValidationError("location must be lat,lon"))
		return
	}

	name, err := s.geocoder.ReverseGeocode(c.Request.Context(), forecast.ParseLocation(request.Location))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReverseGeocodeResponse{
		Name:        name,
		Source:      s.geocoder.Description(),
		Attribution: s.geocoder.Attribution(),
	})
}
