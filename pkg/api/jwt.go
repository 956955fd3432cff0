package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/api/routes"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/auth"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
)

var ErrMissingToken = models.Unauthenticated("No token, authorization denied")

// EnsureValidToken loads the user a bearer token was issued to. Unknown and
// deactivated users are turned away the same as a bad token.
func EnsureValidToken(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return ErrMissingToken
		}

		user, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		routes.SetUser(c, user)

		return c.Next()
	}
}
