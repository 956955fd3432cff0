package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/auth"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
)

func AuthRouter(router fiber.Router, service *auth.Service, requireToken fiber.Handler) {
	router.Post("/register", register(service))
	router.Post("/login", login(service))

	router.Get("/me", requireToken, me(service))
	router.Put("/profile", requireToken, updateProfile(service))
	router.Delete("/delete", requireToken, deleteAccount(service))
}

func register(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var registration auth.Registration
		if err := parseBody(c, &registration); err != nil {
			return err
		}

		session, err := service.Register(c.UserContext(), registration)
		if err != nil {
			return failed("Server error during registration", err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered successfully",
			"token":   session.Token,
			"user":    session.User,
		})
	}
}

func login(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var credentials auth.Credentials
		if err := parseBody(c, &credentials); err != nil {
			return err
		}

		session, err := service.Login(c.UserContext(), credentials)
		if err != nil {
			return failed("Server error during login", err)
		}

		return c.JSON(fiber.Map{
			"message": "Login successful",
			"token":   session.Token,
			"user":    session.User,
		})
	}
}

func me(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := service.Me(c.UserContext(), CurrentUser(c).ID)
		if err != nil {
			return failed("Server error", err)
		}

		view, err := models.View("account", user)
		if err != nil {
			return failed("Server error", err)
		}

		return c.JSON(view)
	}
}

func updateProfile(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch models.ProfilePatch
		if err := parseBody(c, &patch); err != nil {
			return err
		}

		user, err := service.UpdateProfile(c.UserContext(), CurrentUser(c), patch)
		if err != nil {
			return failed("Server error", err)
		}

		view, err := models.View("account", user)
		if err != nil {
			return failed("Server error", err)
		}

		return c.JSON(fiber.Map{
			"message": "Profile updated successfully",
			"user":    view,
		})
	}
}

func deleteAccount(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.DeleteAccount(c.UserContext(), CurrentUser(c)); err != nil {
			return failed("Server error deleting account", err)
		}

		return c.JSON(fiber.Map{
			"message": "Account deleted successfully",
		})
	}
}
