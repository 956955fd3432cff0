package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/admin"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
)

func AdminRouter(router fiber.Router, service *admin.Service) {
	router.Get("/dashboard", adminDashboard(service))
	router.Get("/accidents/pending", pendingAccidents(service))
	router.Put("/accidents/:id/verify", verifyAccident(service))
	router.Put("/accidents/:id/reject", rejectAccident(service))
	router.Get("/users", listUsers(service))
	router.Put("/users/:id/role", updateUserRole(service))
}

func adminDashboard(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dashboard, err := service.Dashboard(c.UserContext(), CurrentUser(c))
		if err != nil {
			return failed("Server error fetching admin dashboard", err)
		}

		return c.JSON(dashboard)
	}
}

func pendingAccidents(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := models.ParsePage(c.Query("page"), c.Query("limit"))

		accidents, err := service.Pending(c.UserContext(), CurrentUser(c), page)
		if err != nil {
			return failed("Server error fetching pending accidents", err)
		}

		return c.JSON(pagedResponse("accidents", accidents.Items, accidents))
	}
}

func verifyAccident(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accident, err := service.Verify(c.UserContext(), CurrentUser(c), c.Params("id"))
		if err != nil {
			return failed("Server error verifying accident", err)
		}

		return c.JSON(fiber.Map{
			"message":  "Accident report verified successfully",
			"accident": accident,
		})
	}
}

func rejectAccident(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := parseBody(c, &body); err != nil {
			return err
		}

		accident, err := service.Reject(c.UserContext(), CurrentUser(c), c.Params("id"), body.Reason)
		if err != nil {
			return failed("Server error rejecting accident", err)
		}

		return c.JSON(fiber.Map{
			"message":  "Accident report rejected",
			"accident": accident,
		})
	}
}

func listUsers(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := models.ParsePage(c.Query("page"), c.Query("limit"))

		users, err := service.ListUsers(c.UserContext(), CurrentUser(c), models.Role(c.Query("role")), page)
		if err != nil {
			return failed("Server error fetching users", err)
		}

		view, err := models.View("admin", users.Items)
		if err != nil {
			return failed("Server error fetching users", err)
		}

		return c.JSON(pagedResponse("users", view, users))
	}
}

func updateUserRole(service *admin.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Role models.Role `json:"role"`
		}
		if err := parseBody(c, &body); err != nil {
			return err
		}

		user, err := service.UpdateRole(c.UserContext(), CurrentUser(c), c.Params("id"), body.Role)
		if err != nil {
			return failed("Server error updating user role", err)
		}

		view, err := models.View("admin", user)
		if err != nil {
			return failed("Server error updating user role", err)
		}

		return c.JSON(fiber.Map{
			"message": "User role updated successfully",
			"user":    view,
		})
	}
}
