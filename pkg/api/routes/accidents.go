package routes

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/reports"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
)

func AccidentsRouter(router fiber.Router, service *reports.Service) {
	router.Post("/", createAccident(service))
	router.Get("/", listAccidents(service))
	router.Get("/recent", recentAccidents(service))
	router.Get("/export", exportAccidents(service))
	router.Get("/:id", getAccident(service))
	router.Put("/:id", updateAccident(service))
	router.Delete("/:id", deleteAccident(service))
}

func accidentQuery(c *fiber.Ctx) (store.AccidentQuery, error) {
	window, err := models.ParseWindow(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return store.AccidentQuery{}, err
	}

	return store.AccidentQuery{
		Severity: models.Severity(c.Query("severity")),
		Category: models.Category(c.Query("category")),
		Status:   models.Status(c.Query("status")),
		Location: c.Query("location"),
		Window:   window,
	}, nil
}

func createAccident(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accident models.Accident
		if err := parseBody(c, &accident); err != nil {
			return err
		}

		created, err := service.Create(c.UserContext(), CurrentUser(c), &accident)
		if err != nil {
			return failed("Server error creating accident report", err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "Accident report created successfully",
			"accident": created,
		})
	}
}

func listAccidents(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := accidentQuery(c)
		if err != nil {
			return err
		}

		page := models.ParsePage(c.Query("page"), c.Query("limit"))

		accidents, err := service.List(c.UserContext(), query, page)
		if err != nil {
			return failed("Server error fetching accidents", err)
		}

		return c.JSON(pagedResponse("accidents", accidents.Items, accidents))
	}
}

func recentAccidents(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accidents, err := service.Recent(c.UserContext(), int64(c.QueryInt("limit", reports.DefaultRecentLimit)))
		if err != nil {
			return failed("Server error fetching recent accidents", err)
		}

		return c.JSON(accidents)
	}
}

func exportAccidents(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := accidentQuery(c)
		if err != nil {
			return err
		}

		var csv bytes.Buffer
		if err := service.Export(c.UserContext(), query, &csv); err != nil {
			return failed("Server error exporting accidents", err)
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Attachment("accidents.csv")

		return c.Send(csv.Bytes())
	}
}

func getAccident(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accident, err := service.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return failed("Server error fetching accident", err)
		}

		return c.JSON(accident)
	}
}

func updateAccident(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch models.AccidentPatch
		if err := parseBody(c, &patch); err != nil {
			return err
		}

		accident, err := service.Update(c.UserContext(), CurrentUser(c), c.Params("id"), &patch)
		if err != nil {
			return failed("Server error updating accident", err)
		}

		return c.JSON(fiber.Map{
			"message":  "Accident report updated successfully",
			"accident": accident,
		})
	}
}

func deleteAccident(service *reports.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.Delete(c.UserContext(), CurrentUser(c), c.Params("id")); err != nil {
			return failed("Server error deleting accident", err)
		}

		return c.JSON(fiber.Map{
			"message": "Accident report deleted successfully",
		})
	}
}
