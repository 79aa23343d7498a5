package middleware

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"applianceassist/config"
	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDLocal  = "requestId"

	adminPath = "/admin"
	loginPath = "/login"
)

type Middleware struct {
	Config  config.Config
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(config config.Config, metrics *metrics.Metrics) Middleware {
	return Middleware{
		Config:  config,
		metrics: metrics,
		log:     logger.New("middleware"),
	}
}

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func (m Middleware) RequestID(c *fiber.Ctx) error {
	requestID := c.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Locals(RequestIDLocal, requestID)
	c.Set(RequestIDHeader, requestID)
	return c.Next()
}

func (m Middleware) RequestLogger(c *fiber.Ctx) error {
	log := m.log.Function("RequestLogger")
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
		"requestId", c.Locals(RequestIDLocal),
	}

	switch {
	case status >= fiber.StatusInternalServerError:
		log.Er("request failed", err, args...)
	case status >= fiber.StatusBadRequest:
		log.Warn("request rejected", args...)
	default:
		log.Info("request", args...)
	}

	return err
}

func (m Middleware) Metrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	route := c.Route().Path
	if route == "" {
		route = "unmatched"
	}
	status := c.Response().StatusCode()
	if fiberErr, ok := err.(*fiber.Error); ok {
		status = fiberErr.Code
	}

	m.metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	m.metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
	return err
}

// SessionGate keeps anonymous visitors out of /admin and sends logged-in
// admins away from /login. Only the presence of the cookie is checked. Paths
// are matched ignoring case so the gate never depends on router settings.
func (m Middleware) SessionGate(c *fiber.Ctx) error {
	path := c.Path()
	loggedIn := m.HasSession(c)

	if isAdminPath(path) && !loggedIn {
		m.log.Function("SessionGate").Debug("redirecting anonymous visitor to login", "path", path)
		return c.Redirect(loginRedirect(path), fiber.StatusFound)
	}

	if isLoginPath(path) && loggedIn {
		return c.Redirect(adminPath, fiber.StatusFound)
	}

	return c.Next()
}

func (m Middleware) HasSession(c *fiber.Ctx) bool {
	return c.Cookies(m.Config.SessionCookieName) != ""
}

func (m Middleware) SetSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.Config.SessionCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   m.Config.SessionMaxAgeSeconds,
		HTTPOnly: true,
		Secure:   m.Config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m Middleware) ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.Config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func loginRedirect(path string) string {
	return loginPath + "?redirectedFrom=" + url.QueryEscape(path)
}

func isAdminPath(path string) bool {
	path = strings.ToLower(strings.TrimRight(path, "/"))
	return path == adminPath || strings.HasPrefix(path, adminPath+"/")
}

func isLoginPath(path string) bool {
	return strings.EqualFold(strings.TrimRight(path, "/"), loginPath)
}
