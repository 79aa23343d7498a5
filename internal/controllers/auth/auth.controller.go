package authController

import (
	"crypto/subtle"
	"errors"
	"strings"

	"applianceassist/config"
	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"
	"applianceassist/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthController checks the single configured admin account. There is no
// user table; a successful login only earns the session cookie.
type AuthController struct {
	Config  config.Config
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(config config.Config, metrics *metrics.Metrics) *AuthController {
	return &AuthController{
		Config:  config,
		metrics: metrics,
		log:     logger.New("AuthController"),
	}
}

// Login returns violations for a malformed form and ErrInvalidCredentials for
// any mismatch. Unknown email and wrong password are not distinguished.
func (c *AuthController) Login(raw map[string]string) (LoginRequest, validation.Violations, error) {
	log := c.log.Function("Login")

	request, violations := validation.ValidateLogin(raw)
	if len(violations) > 0 {
		c.metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return LoginRequest{}, violations, nil
	}

	emailMatches := subtle.ConstantTimeCompare(
		[]byte(request.Email),
		[]byte(strings.TrimSpace(c.Config.AdminEmail)),
	) == 1
	passwordMatches := c.passwordMatches(request.Password)

	if !emailMatches || !passwordMatches {
		c.metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		log.Warn("admin login failed")
		return LoginRequest{}, nil, ErrInvalidCredentials
	}

	c.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info("admin logged in", "email", request.Email)
	return request, nil, nil
}

func (c *AuthController) passwordMatches(password string) bool {
	if c.Config.AdminPasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(c.Config.AdminPasswordHash), []byte(password))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			c.log.Function("passwordMatches").Er("failed to compare password hash", err)
		}
		return err == nil
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(c.Config.AdminPassword)) == 1
}
