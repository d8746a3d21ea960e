package handlers

import "github.com/gofiber/fiber/v2"

// HandleHealthCheck cho biết service còn sống
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/health [get]
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.Status(200).JSON(fiber.Map{
		"status":  "ok",
		"service": "go-todo",
	})
}
