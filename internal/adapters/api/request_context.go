package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"briefsky.app/internal/adapters/infrastructure"
	"briefsky.app/internal/core/briefing"
	"briefsky.app/internal/core/settings"
)

// SessionCookie identifies the browser session a local settings record belongs to
const SessionCookie = "briefsky_session"

const sessionMaxAge = 365 * 24 * 60 * 60

// sessionID returns the session cookie, issuing a fresh one when absent
func (s *HTTPServerAdapter) sessionID(c *gin.Context) string {
	if session, err := c.Cookie(SessionCookie); err == nil && session != "" {
		return session
	}

	session := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session, sessionMaxAge, "/", "", false, true)
	return session
}

func (s *HTTPServerAdapter) region(c *gin.Context) string {
	return settings.RegionFromAcceptLanguage(c.GetHeader("Accept-Language"), s.config.DefaultRegion)
}

// forecastRequest collects the session, query, region and client position
func (s *HTTPServerAdapter) forecastRequest(c *gin.Context) briefing.ForecastRequest {
	request := briefing.ForecastRequest{
		SessionID: s.sessionID(c),
		Query:     c.Request.URL.Query(),
		Region:    s.region(c),
	}
	if client := infrastructure.ClientGeolocatorFromRequest(c.Request); client != nil {
		request.Geolocator = client
	}
	return request
}
