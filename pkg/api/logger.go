package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/api/routes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger writes one line per request. Errors from the handler chain are
// rendered here first so the logged status is the one the caller received.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, chainErr); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()

		event := requestEvent(status).
			Int("status", status).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", c.Route().Path).
			Str("ip", clientIP(c)).
			Dur("latency", time.Since(startTime)).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Interface("request-id", c.Locals(requestIDLocal))

		if user := routes.CurrentUser(c); user != nil {
			event = event.Str("user", user.ID.Hex()).Str("role", string(user.Role))
		}
		if chainErr != nil {
			event = event.Err(chainErr)
		}

		event.Msg("HTTP Request")

		return nil
	}
}

func requestEvent(status int) *zerolog.Event {
	switch {
	case status >= fiber.StatusInternalServerError:
		return log.Error()
	case status >= fiber.StatusBadRequest:
		return log.Warn()
	default:
		return log.Info()
	}
}

// clientIP prefers the first X-Forwarded-For hop when the API sits behind a
// proxy.
func clientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	return c.IP()
}
