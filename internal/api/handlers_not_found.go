package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	messages := currentMessages(c)
	if isHTMX(c) {
		message := localizedPageTitle(messages, "not_found.title", "Page not found")
		c.Status(fiber.StatusNotFound)
		c.Type("html", "utf-8")
		return c.SendString(statusErrorFragment(message))
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title": localizedPageTitle(messages, "meta.title.not_found", "Page not found"),
	})
}
