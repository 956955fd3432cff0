package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/analytics"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
)

func AnalyticsRouter(router fiber.Router, aggregator *analytics.Aggregator) {
	router.Get("/dashboard", analyticsDashboard(aggregator))
	router.Get("/trends", trends(aggregator))
	router.Get("/heatmap", heatmap(aggregator))
}

func queryWindow(c *fiber.Ctx) (models.Window, error) {
	return models.ParseWindow(c.Query("startDate"), c.Query("endDate"))
}

func analyticsDashboard(aggregator *analytics.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		window, err := queryWindow(c)
		if err != nil {
			return err
		}

		dashboard, err := aggregator.Dashboard(c.UserContext(), window)
		if err != nil {
			return failed("Server error fetching analytics", err)
		}

		return c.JSON(dashboard)
	}
}

func trends(aggregator *analytics.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		window, err := queryWindow(c)
		if err != nil {
			return err
		}

		buckets, err := aggregator.Trends(c.UserContext(), models.ParsePeriod(c.Query("period")), window)
		if err != nil {
			return failed("Server error fetching trends", err)
		}

		return c.JSON(buckets)
	}
}

func heatmap(aggregator *analytics.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		window, err := queryWindow(c)
		if err != nil {
			return err
		}

		points, err := aggregator.Heatmap(c.UserContext(), window)
		if err != nil {
			return failed("Server error fetching heatmap data", err)
		}

		return c.JSON(points)
	}
}
